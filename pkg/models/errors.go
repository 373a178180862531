package models

import "errors"

// Error kinds surfaced by the import pipeline. Callers match them with
// errors.Is; every layer wraps them with fmt.Errorf and %w.
var (
	// ErrNoDatestampFound means every extraction strategy failed for a file
	ErrNoDatestampFound = errors.New("no datestamp found")

	// ErrMetadataUnreadable means a file has no usable embedded capture time.
	// It only ever causes the extractor to fall through to the next strategy.
	ErrMetadataUnreadable = errors.New("metadata unreadable")

	// ErrSourceNotFound means the source file was missing at execution time
	ErrSourceNotFound = errors.New("source file not found")

	// ErrDirectoryCreation means a destination directory could not be created
	ErrDirectoryCreation = errors.New("directory creation failed")

	// ErrIO covers any other failed filesystem operation
	ErrIO = errors.New("i/o failure")

	// ErrLibraryNotFound means the library root does not exist
	ErrLibraryNotFound = errors.New("library root not found")

	// ErrVerificationFailed means a copied file does not match its source
	ErrVerificationFailed = errors.New("verification failed")
)

// ErrorKind returns a stable name for the kind of err, used in reports
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoDatestampFound):
		return "no_datestamp_found"
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, ErrDirectoryCreation):
		return "directory_creation_failed"
	case errors.Is(err, ErrMetadataUnreadable):
		return "metadata_unreadable"
	case errors.Is(err, ErrLibraryNotFound):
		return "library_not_found"
	case errors.Is(err, ErrVerificationFailed):
		return "verification_failed"
	case errors.Is(err, ErrIO):
		return "io_failure"
	default:
		return "error"
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
