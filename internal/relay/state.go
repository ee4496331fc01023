package relay

func (state State) String() (text string) {
	switch state {
	case StateCreated:
		text = "created"
	case StateServing:
		text = "serving"
	case StateStopping:
		text = "stopping"
	case StateStopped:
		text = "stopped"
	default:
		text = "unknown"
	}
	return
}

// Current lifecycle state
func (daemon *Daemon) State() (state State) {
	state = State(daemon.state.Load())
	return
}

// Closed once the daemon reaches the stopped state
func (daemon *Daemon) Done() (done <-chan struct{}) {
	done = daemon.done
	return
}

func (daemon *Daemon) setState(state State) {
	daemon.state.Store(int32(state))
}
