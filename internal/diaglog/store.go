// Package diaglog stores diagnostic log files uploaded by operator
// terminals.
package diaglog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"github.com/czttgd/breakinfo/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrEmpty    = errors.New("empty_log")
	ErrTooLarge = errors.New("log_too_large")
)

type Params struct {
	fx.In

	Cfg  config.Config
	Node *snowflake.Node
	Log  *zap.Logger
}

// Store writes each upload to its own file named by a snowflake id.
type Store struct {
	dir      string
	maxBytes int64
	node     *snowflake.Node
	log      *zap.Logger
}

type Saved struct {
	ID   snowflake.ID `json:"id"`
	Size int64        `json:"size"`
}

func New(p Params) *Store {
	return &Store{
		dir:      p.Cfg.Uploads.Dir,
		maxBytes: p.Cfg.Uploads.MaxBytes,
		node:     p.Node,
		log:      p.Log.Named("diaglog"),
	}
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save copies r into a new file under the upload directory. Nothing is
// left behind when the copy fails or exceeds the size limit.
func (s *Store) Save(ctx context.Context, r io.Reader) (Saved, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Saved{}, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Saved{}, err
	}
	defer os.Remove(tmp.Name())

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(tmp, readerWithContext{ctx: ctx, r: src})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Saved{}, err
	}
	if n == 0 {
		return Saved{}, ErrEmpty
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return Saved{}, ErrTooLarge
	}

	id := s.node.Generate()
	path := filepath.Join(s.dir, id.String())
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Saved{}, err
	}

	s.log.Info("diagnostic log stored", zap.String("path", path), zap.Int64("bytes", n))
	return Saved{ID: id, Size: n}, nil
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (rc readerWithContext) Read(p []byte) (int, error) {
	if err := rc.ctx.Err(); err != nil {
		return 0, err
	}
	return rc.r.Read(p)
}

var Module = fx.Module("diaglog",
	fx.Provide(New),
)
