package stream

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	dirwalker "github.com/gabrielecodes/dir-walker"
)

const (
	nilChannelMessage = "stream: event channel is nil"
	// errorNameNotFoundFormat reports a name lookup without a match.
	errorNameNotFoundFormat = "no entry named %s under %s"
)

// WalkOptions configures one traversal for streaming.
type WalkOptions struct {
	Root            string
	SkipDotted      bool
	SkipDirectories []string
	MaxDepth        int
	MaxEntries      int
	Logger          *zap.Logger
}

// configureWalker translates the options into a walker value. The walker's
// logger is teed through the emitter so warnings the traversal swallows
// (for example unreadable child metadata) also reach the event stream.
func configureWalker(options WalkOptions, streamEmitter *emitter) dirwalker.Walker {
	walker := dirwalker.New(options.Root).
		MaxDepth(options.MaxDepth).
		MaxEntries(options.MaxEntries)
	if options.SkipDotted {
		walker = walker.SkipDotted()
	}
	if len(options.SkipDirectories) > 0 {
		walker = walker.SkipDirectories(options.SkipDirectories...)
	}
	return walker.WithLogger(newWarningLogger(options.Logger, streamEmitter))
}

// newWarningLogger tees the base logger into the emitter: every record at
// warn level or above is also sent as an EventKindWarning event.
func newWarningLogger(baseLogger *zap.Logger, streamEmitter *emitter) *zap.Logger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	return baseLogger.WithOptions(zap.WrapCore(func(existingCore zapcore.Core) zapcore.Core {
		return zapcore.NewTee(existingCore, &warningCore{streamEmitter: streamEmitter})
	}))
}

// warningCore forwards warn-level log records to the event stream.
type warningCore struct {
	streamEmitter *emitter
	fields        []zapcore.Field
}

func (core *warningCore) Enabled(level zapcore.Level) bool {
	return level >= zapcore.WarnLevel
}

func (core *warningCore) With(fields []zapcore.Field) zapcore.Core {
	return &warningCore{
		streamEmitter: core.streamEmitter,
		fields:        append(append([]zapcore.Field{}, core.fields...), fields...),
	}
}

func (core *warningCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if core.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, core)
	}
	return checkedEntry
}

func (core *warningCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	warningEvent := Event{
		Kind:    EventKindWarning,
		Message: &LogEvent{Level: entry.Level.String(), Message: entry.Message},
	}
	for _, recordedField := range append(append([]zapcore.Field{}, core.fields...), fields...) {
		if recordedField.Key == "path" && recordedField.Type == zapcore.StringType {
			warningEvent.Path = recordedField.String
		}
	}
	return core.streamEmitter.send(warningEvent)
}

func (core *warningCore) Sync() error {
	return nil
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (streamEmitter *emitter) send(event Event) error {
	if streamEmitter.out == nil {
		return fmt.Errorf(nilChannelMessage)
	}
	event.Version = SchemaVersion
	select {
	case <-streamEmitter.ctx.Done():
		return streamEmitter.ctx.Err()
	case streamEmitter.out <- event:
		return nil
	}
}

// StreamTree runs the traversal and emits the whole result tree as a
// single event. The traversal itself is strictly sequential; only the
// hand-off to the consumer crosses goroutines.
func StreamTree(ctx context.Context, options WalkOptions, out chan<- Event) error {
	streamEmitter := newEmitter(ctx, out)
	resultTree, walkError := configureWalker(options, streamEmitter).Walk()
	if walkError != nil {
		return walkError
	}
	return streamEmitter.send(Event{Kind: EventKindTree, Path: options.Root, Tree: resultTree})
}

// StreamFlat runs the traversal and emits one event per entry of the flat
// depth-first view, in traversal order.
func StreamFlat(ctx context.Context, options WalkOptions, out chan<- Event) error {
	streamEmitter := newEmitter(ctx, out)
	resultTree, walkError := configureWalker(options, streamEmitter).Walk()
	if walkError != nil {
		return walkError
	}
	for _, flatEntry := range resultTree.Flatten() {
		currentEntry := flatEntry
		sendError := streamEmitter.send(Event{Kind: EventKindItem, Path: currentEntry.Record.Path, Item: &currentEntry})
		if sendError != nil {
			return sendError
		}
	}
	return nil
}

// StreamFind runs the traversal and emits the first entry whose name
// matches the target, or an error when no entry matches.
func StreamFind(ctx context.Context, options WalkOptions, targetName string, out chan<- Event) error {
	streamEmitter := newEmitter(ctx, out)
	resultTree, walkError := configureWalker(options, streamEmitter).Walk()
	if walkError != nil {
		return walkError
	}
	foundEntry := resultTree.Find(targetName)
	if foundEntry == nil {
		return fmt.Errorf(errorNameNotFoundFormat, targetName, options.Root)
	}
	return streamEmitter.send(Event{Kind: EventKindFound, Path: foundEntry.Record.Path, Found: foundEntry})
}
