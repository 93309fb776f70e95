package server

// ReqRender is the body of POST /render and POST /render.pdf.
type ReqRender struct {
	Source   string      `json:"source"`
	Width    *int        `json:"width,omitempty"`
	TabWidth *int        `json:"tabWidth,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

type ResRender struct {
	Text     string `json:"text"`
	Width    int    `json:"width"`
	TabWidth int    `json:"tabWidth"`
	Lines    int    `json:"lines"`
}

type ResError struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
