package player

// Pause suspends audio output. The connection stays open.
func (s *stream) Pause() {
	s.setPaused(true)
}

// Resume restarts audio output after Pause.
func (s *stream) Resume() {
	s.setPaused(false)
}

func (s *stream) setPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	ctrl := s.ctrl
	s.mu.Unlock()

	// Output not started yet: the flag is picked up when it is.
	if ctrl == nil {
		return
	}
	s.p.out.Lock()
	ctrl.Paused = paused
	s.p.out.Unlock()
}

// Close stops the stream and waits for its goroutines to release the
// connection and the decoder. Must not be called from the stream's listener.
func (s *stream) Close() error {
	s.cancel()
	<-s.done
	return nil
}
