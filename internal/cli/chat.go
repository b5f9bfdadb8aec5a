package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"omnirag/console/internal/conversation"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/model"
	"omnirag/console/internal/render"
	"omnirag/console/internal/service"
)

const chatHelp = `Commands:
  /new               start a new conversation
  /sessions          list conversations
  /open <id>         open a conversation
  /delete <id>       delete a conversation
  /clear             delete all conversations
  /evidence <id>     show the evidence of a message
  /quit              leave`

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a bot interactively",
		Long: `Open a chat with a bot. Replies stream as they arrive and the evidence
used to ground them is shown once they finish.

` + chatHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			botID, err := requireFlag(cmd, "bot")
			if err != nil {
				return err
			}
			sessionID, _ := cmd.Flags().GetString("session")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var opts []conversation.Option
			if sessionID != "" {
				opts = append(opts, conversation.WithSession(sessionID))
			}
			return runChat(ctx, a.Chat, botID, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("bot", "", "Bot ID")
	cmd.Flags().String("session", "", "Open this session instead of a new chat")
	return cmd
}

// lockedWriter serialises writes from the event relay and the prompt loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type chatSession struct {
	svc   *service.ChatService
	botID string
	out   io.Writer

	// idle receives a value each time streaming stops.
	idle chan struct{}
}

func runChat(ctx context.Context, svc *service.ChatService, botID string, opts []conversation.Option, in io.Reader, stdout io.Writer) error {
	out := &lockedWriter{w: stdout}

	state, err := svc.Open(ctx, botID, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(botID); err != nil {
			render.Error(out, err)
		}
	}()

	render.Bot(out, state.Bot)
	for _, m := range state.Messages {
		render.Message(out, m)
	}
	render.Evidence(out, state.Evidence)

	events, unsubscribe, err := svc.Subscribe(botID, 256)
	if err != nil {
		return err
	}
	cs := &chatSession{svc: svc, botID: botID, out: out, idle: make(chan struct{}, 1)}
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		cs.relay(events)
	}()
	defer func() {
		unsubscribe()
		<-relayDone
	}()

	lines := readLines(in)
	for {
		_, _ = fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}
		quit, err := cs.handle(ctx, line)
		if err != nil {
			render.Error(out, err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// readLines delivers input lines until EOF. The reader goroutine is left
// blocked when the chat ends before its input does.
func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func (cs *chatSession) relay(events <-chan conversation.Event) {
	s := render.NewStream(cs.out)
	for ev := range events {
		s.Handle(ev)
		if ev.Kind == conversation.EventStreamingChanged && !ev.Streaming {
			select {
			case cs.idle <- struct{}{}:
			default:
			}
		}
	}
}

func (cs *chatSession) handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		return false, cs.send(ctx, line)
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		_, _ = fmt.Fprintln(cs.out, chatHelp)
	case "/new":
		if err := cs.svc.NewChat(cs.botID); err != nil {
			return false, err
		}
		return false, cs.printState()
	case "/sessions":
		state, err := cs.svc.State(cs.botID)
		if err != nil {
			return false, err
		}
		render.Sessions(cs.out, state.Sessions, state.SessionID)
	case "/open":
		if err := cs.svc.SelectSession(ctx, cs.botID, arg); err != nil {
			return false, err
		}
		return false, cs.printState()
	case "/delete":
		return false, cs.svc.DeleteSession(ctx, cs.botID, arg)
	case "/clear":
		return false, cs.svc.ClearHistory(ctx, cs.botID)
	case "/evidence":
		selected, err := cs.svc.SelectEvidence(cs.botID, arg)
		if err != nil {
			return false, err
		}
		if !selected {
			_, _ = fmt.Fprintln(cs.out, "That message has no evidence.")
			return false, nil
		}
		state, err := cs.svc.State(cs.botID)
		if err != nil {
			return false, err
		}
		render.Evidence(cs.out, state.Evidence)
	default:
		return false, fmt.Errorf("unknown command %s, try /help", command)
	}
	return false, nil
}

func (cs *chatSession) send(ctx context.Context, text string) error {
	err := cs.svc.Send(ctx, cs.botID, text)
	if errors.Is(err, app_errors.ErrValidation) || errors.Is(err, app_errors.ErrNotFound) {
		return err
	}

	// The streaming flag clears before Send returns; wait for the relay to print it.
	select {
	case <-cs.idle:
	case <-time.After(2 * time.Second):
	}
	if err != nil {
		// Cancelled, or already shown by the relay as a notification.
		return nil
	}

	state, err := cs.svc.State(cs.botID)
	if err != nil {
		return err
	}
	if last := lastAssistant(state.Messages); last != nil && len(last.RetrievedChunks) > 0 {
		render.Evidence(cs.out, state.Evidence)
		_, _ = fmt.Fprintf(cs.out, "message id: %s\n", last.ID)
	}
	return nil
}

func (cs *chatSession) printState() error {
	state, err := cs.svc.State(cs.botID)
	if err != nil {
		return err
	}
	for _, m := range state.Messages {
		render.Message(cs.out, m)
	}
	render.Evidence(cs.out, state.Evidence)
	return nil
}

func lastAssistant(messages []model.ChatMessage) *model.ChatMessage {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleAssistant {
			return &messages[i]
		}
	}
	return nil
}
