package main

// Run executes the serve command. It blocks until the process is
// interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Server.ListenAndServe(deps.Ctx, c.Addr); err != nil {
		return fail(deps, err)
	}
	return nil
}
