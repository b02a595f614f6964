package main_test

import (
	"bytes"
	"context"

	main "github.com/hktitof/newsdigest/cmd/newsdigest"
)

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

type tokenCounterFunc func(ctx context.Context, text string) (int, error)

func (f tokenCounterFunc) CountTokens(ctx context.Context, text string) (int, error) {
	return f(ctx, text)
}
