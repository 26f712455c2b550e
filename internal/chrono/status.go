package chrono

import "fmt"

// Status compares the working tree with the tracked state.
func (s *ChronoService) Status() (*ChangeSet, error) {
	current, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scanning working tree: %w", err)
	}

	tracked, err := s.database.TrackedDigests()
	if err != nil {
		return nil, fmt.Errorf("loading tracked files: %w", err)
	}

	return Detect(current, tracked), nil
}
