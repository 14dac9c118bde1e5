package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
	Children(ctx context.Context) error
	AddChild(ctx context.Context) error
	AddDiary(ctx context.Context) error
	AddGrowth(ctx context.Context) error
	AddEvent(ctx context.Context) error
	AddMilestone(ctx context.Context) error
	AddMedia(ctx context.Context) error
	DeleteChild(ctx context.Context) error
	Delete(ctx context.Context) error
}

const helpText = `Available commands:
  status         connectivity and last sync result
  sync           sync now
  children       list children
  add-child      add a child
  add-diary      add a diary entry
  add-growth     add a growth record
  add-event      add an event
  add-milestone  add a milestone
  add-media      register a photo, video or echo file
  delete-child   delete a child and all its records
  delete         delete one record
  exit | quit    leave the program`

// runREPL reads commands line by line from reader and dispatches them to a.
// The prompt, including statusFn's output, goes to prompt, which callers set
// to io.Discard when stdin is not a terminal. Handlers report their own
// errors; the loop ends on EOF, exit, quit or ctx cancellation.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, prompt io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(prompt, "gj %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			printlnFn(helpText)
		case "status":
			cmdErr = a.Status(ctx)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "children", "ls":
			cmdErr = a.Children(ctx)
		case "add-child":
			cmdErr = a.AddChild(ctx)
		case "add-diary":
			cmdErr = a.AddDiary(ctx)
		case "add-growth":
			cmdErr = a.AddGrowth(ctx)
		case "add-event":
			cmdErr = a.AddEvent(ctx)
		case "add-milestone":
			cmdErr = a.AddMilestone(ctx)
		case "add-media":
			cmdErr = a.AddMedia(ctx)
		case "delete-child":
			cmdErr = a.DeleteChild(ctx)
		case "delete":
			cmdErr = a.Delete(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
