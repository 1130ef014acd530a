// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visualizer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/vfs"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("visualizer: worker closed")

// =============================================================================
// WORKER
// =============================================================================

type call struct {
	ctx   context.Context
	req   Request
	reply chan reply
}

type reply struct {
	resp Response
	err  error
}

// Worker answers visualizer requests on its own goroutine, one at a time.
type Worker struct {
	fsys *vfs.FileSystem
	log  *zap.Logger

	calls     chan call
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWorker starts a worker over fsys.
func NewWorker(fsys *vfs.FileSystem, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Worker{
		fsys:  fsys,
		log:   log,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// Do sends req to the worker and waits for its reply.
func (w *Worker) Do(ctx context.Context, req Request) (Response, error) {
	c := call{ctx: ctx, req: req, reply: make(chan reply, 1)}
	select {
	case w.calls <- c:
	case <-w.done:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case r := <-c.reply:
		return r.resp, r.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close stops the worker and waits for it to exit. It is safe to call more
// than once.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case c := <-w.calls:
			resp, err := w.handle(c.ctx, c.req)
			c.reply <- reply{resp: resp, err: err}
		}
	}
}

func (w *Worker) handle(ctx context.Context, req Request) (Response, error) {
	if msg := w.mismatch(req); msg != "" {
		w.log.Debug("visualizer request mismatch", zap.String("cmd", req.Cmd), zap.String("msg", msg))
		return Response{Msg: msg}, nil
	}

	switch req.Cmd {
	case CmdRead:
		root, err := Walk(w.fsys.Afero())
		if err != nil {
			return Response{}, fmt.Errorf("failed to walk filesystem: %w", err)
		}
		return Response{Entries: root}, nil
	case CmdInit:
		msg, err := Seed(ctx, w.fsys)
		if err != nil {
			return Response{}, err
		}
		return Response{Msg: msg}, nil
	default:
		return Response{Msg: fmt.Sprintf("Unknown visualizer command: %s", req.Cmd)}, nil
	}
}

// mismatch describes a request aimed at a different filesystem than the one
// the worker holds.
func (w *Worker) mismatch(req Request) string {
	if req.Type != w.fsys.Type() {
		return fmt.Sprintf("Filesystem mismatch: requested %s, sandbox is %s", req.Type, w.fsys.Type())
	}
	if req.Size != w.fsys.Quota() {
		return fmt.Sprintf("Filesystem mismatch: requested quota %d bytes, sandbox has %d", req.Size, w.fsys.Quota())
	}
	return ""
}
