package signal

func (ctl *SignalWSController) handlePing(
	cl *client,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(cl.conn, resp)
}
