package file

// Gracefully stops module
func (capture *Capture) Shutdown() (err error) {
	if capture == nil {
		return
	}
	if capture.sink != nil {
		err = capture.sink.Close()
	}
	return
}
