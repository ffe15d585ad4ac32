package logging

// suppressConsole raises the console level above every record level and
// returns the function restoring the previous level.
func (s *Service) suppressConsole() (restore func()) {
	prev := s.console.Level()
	s.console.SetLevel(LevelOff)
	return func() { s.console.SetLevel(prev) }
}

// WithConsoleSuppressed runs fn with the console sink silenced. The previous
// console level is restored on every exit path, panics included. The file
// sink keeps receiving records.
func (s *Service) WithConsoleSuppressed(fn func() error) error {
	if s == nil {
		return fn()
	}
	defer s.suppressConsole()()
	return fn()
}
