package chrono

// Options tunes service behaviour. The zero value is usable.
type Options struct {
	// StrictBackup makes a failed body copy abort the commit (rolling back
	// the metadata) and a failed safety copy abort the revert. When false
	// such failures are logged as warnings.
	StrictBackup bool

	// SafetyKeep is the number of safety snapshots Cleanup retains.
	SafetyKeep int
}

// DefaultSafetyKeep is used when Options.SafetyKeep is not positive.
const DefaultSafetyKeep = 5

// ChronoService is the orchestration layer that coordinates the scanner,
// the metadata store and the snapshot store to perform the operations
// needed by the CLI.
type ChronoService struct {
	database  Database
	snapshots SnapshotStore
	fsmgr     FilesystemManager
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	opts      Options
}

// NewChronoService creates a new ChronoService with the provided dependencies.
func NewChronoService(database Database, snapshots SnapshotStore, fsmgr FilesystemManager, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator, opts Options) *ChronoService {
	if opts.SafetyKeep <= 0 {
		opts.SafetyKeep = DefaultSafetyKeep
	}
	return &ChronoService{
		database:  database,
		snapshots: snapshots,
		fsmgr:     fsmgr,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		opts:      opts,
	}
}

// scan walks the working tree and logs every file that had to be skipped.
func (s *ChronoService) scan() (map[string]string, error) {
	result, err := s.fsmgr.Scan()
	if err != nil {
		return nil, err
	}
	for _, skipped := range result.Skipped {
		s.logger.Warn("file skipped", "path", skipped.Path, "error", skipped.Err)
	}
	return result.Files, nil
}
