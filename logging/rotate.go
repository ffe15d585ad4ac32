package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotator is the file the file sink renders into. Write rotates on its own
// once the size bound is reached; Rotate forces a rotation.
type rotator interface {
	io.WriteCloser
	Rotate() error
}

var (
	_ rotator = (*numberedRotator)(nil)
	_ rotator = (*lumberjack.Logger)(nil)
)

// newRotator picks the rotation backend for cfg. Age-bounded retention is
// only available through lumberjack, whose sizes are whole megabytes.
func newRotator(cfg FileConfig) (rotator, error) {
	if cfg.MaxAgeDays > 0 {
		const megabyte = 1024 * 1024
		return &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    int((cfg.MaxBytes + megabyte - 1) / megabyte),
			MaxBackups: cfg.BackupCount,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}, nil
	}
	return openNumberedRotator(cfg.Path, cfg.MaxBytes, cfg.BackupCount, cfg.Compress)
}

// numberedRotator writes to path and, when the next write would take the
// file past maxBytes, shifts archives path.1 .. path.N up by one (dropping
// path.N) and starts a fresh file. path.1 is always the newest archive.
type numberedRotator struct {
	mu sync.Mutex

	path       string
	maxBytes   int64
	maxBackups int
	compress   bool

	file *os.File
	size int64
}

func openNumberedRotator(path string, maxBytes int64, maxBackups int, compress bool) (*numberedRotator, error) {
	r := &numberedRotator{
		path:       path,
		maxBytes:   maxBytes,
		maxBackups: maxBackups,
		compress:   compress,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// open opens the active file for appending. The caller must hold the mutex.
func (r *numberedRotator) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file = file
	r.size = info.Size()
	return nil
}

func (r *numberedRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}

	if r.size > 0 && r.size+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
			if r.file == nil {
				return 0, err
			}
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *numberedRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return os.ErrClosed
	}
	return r.rotate()
}

// rotate archives the active file and reopens it. The caller must hold
// the mutex.
func (r *numberedRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	r.file = nil

	r.shiftArchives()

	if r.maxBackups > 0 {
		first := r.archivePath(1)
		if err := os.Rename(r.path, first); err != nil {
			if openErr := r.open(); openErr != nil {
				return fmt.Errorf("rename log file: %v; reopen: %w", err, openErr)
			}
			return fmt.Errorf("rename log file: %w", err)
		}
		if r.compress {
			if err := compressFile(first); err != nil {
				fmt.Fprintf(os.Stderr, "log archive compression failed: %v\n", err)
			}
		}
	} else if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove log file: %w", err)
	}

	return r.open()
}

// shiftArchives drops the oldest archive and renames path.K to path.K+1.
func (r *numberedRotator) shiftArchives() {
	if r.maxBackups <= 0 {
		return
	}
	oldest := r.archivePath(r.maxBackups)
	_ = os.Remove(oldest)
	_ = os.Remove(oldest + ".gz")

	for i := r.maxBackups - 1; i >= 1; i-- {
		from, to := r.archivePath(i), r.archivePath(i+1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			_ = os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			_ = os.Rename(from, to)
		}
	}
}

func (r *numberedRotator) archivePath(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}

func (r *numberedRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// compressFile replaces path with path.gz.
func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := os.OpenFile(gzPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		_ = zw.Close()
		_ = dst.Close()
		_ = os.Remove(gzPath)
		return err
	}
	if err := zw.Close(); err != nil {
		_ = dst.Close()
		_ = os.Remove(gzPath)
		return err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(gzPath)
		return err
	}
	_ = src.Close()
	return os.Remove(path)
}
