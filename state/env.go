// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/jqalt/config"
	"github.com/chrisuehlinger/jqalt/dom"
	"github.com/chrisuehlinger/jqalt/jq"
	"github.com/chrisuehlinger/jqalt/network"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// NewQuery binds a query to doc using the configured options and logger.
// Configured native event names are registered with the document.
func (e *LocalEnv) NewQuery(doc *dom.Document) *jq.Query {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	opts := []jq.Option{jq.WithLogger(log)}
	if e.Cfg != nil {
		doc.RegisterNativeEvents(e.Cfg.Events.Native...)
		opts = append(opts, e.Cfg.Query.Options()...)
	}
	return jq.New(doc, opts...)
}

// NewLoader creates a document loader with the configured HTTP client.
func (e *LocalEnv) NewLoader() (*network.Loader, error) {
	opts := []network.ClientOption{network.WithClientLogger(e.Log)}
	if e.Cfg != nil {
		opts = append(opts, e.Cfg.Network.Options()...)
	}
	client, err := network.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return network.NewLoader(client, e.Log), nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
