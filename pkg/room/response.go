package room

// ActionRequest is a player action sent over the websocket
type ActionRequest struct {
	// Action is one of fold, check, call, raise, allIn, or deal
	Action string `json:"action"`
	// Amount is the total chips committed; only meaningful for raise
	Amount int `json:"amount"`
	// Context is echoed back on the response so the client can match
	// replies to requests
	Context string `json:"context"`
}

// Response is an envelope for messages pushed to a client
type Response struct {
	Key     string      `json:"key"`
	Context string      `json:"context,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Context: ctx,
		Value:   err.Error(),
	}
}

func newStateResponse(snapshot interface{}) *Response {
	return &Response{
		Key:   "state",
		Value: snapshot,
	}
}
