package chromedp

var (
	ContextErr       = contextErr
	InterceptRequest = interceptRequest
)
