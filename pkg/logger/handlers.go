package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

type poster interface {
	Post(tag string, message interface{}) error
}

// fluentHandler posts every record to fluentd as a flat map.
type fluentHandler struct {
	client poster
	tag    string
	level  slog.Leveler
	fields map[string]interface{}
	prefix string
}

func newFluentHandler(client poster, tag string, level slog.Leveler) *fluentHandler {
	return &fluentHandler{
		client: client,
		tag:    tag,
		level:  level,
		fields: map[string]interface{}{},
	}
}

func (h *fluentHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *fluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]interface{}, len(h.fields)+r.NumAttrs()+3)
	for k, v := range h.fields {
		data[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(data, h.prefix, a)
		return true
	})

	data["level"] = strings.ToLower(r.Level.String())
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)

	return h.client.Post(h.tag+"."+strings.ToLower(r.Level.String()), data)
}

func (h *fluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(map[string]interface{}, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		fields[k] = v
	}
	for _, a := range attrs {
		addAttr(fields, h.prefix, a)
	}
	return &fluentHandler{client: h.client, tag: h.tag, level: h.level, fields: fields, prefix: h.prefix}
}

func (h *fluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &fluentHandler{client: h.client, tag: h.tag, level: h.level, fields: h.fields, prefix: h.prefix + name + "."}
}

func addAttr(dst map[string]interface{}, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(dst, p, ga)
		}
		return
	}

	v := a.Value.Any()
	if err, ok := v.(error); ok {
		v = err.Error()
	}
	if d, ok := v.(time.Duration); ok {
		v = d.String()
	}
	dst[prefix+a.Key] = v
}

// multiHandler fans a record out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		hs = append(hs, h.WithAttrs(attrs))
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		hs = append(hs, h.WithGroup(name))
	}
	return &multiHandler{handlers: hs}
}
