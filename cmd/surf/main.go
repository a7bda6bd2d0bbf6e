// Package main provides the surf headless executor: a terminal driver
// for the computer-use agent loop. It owns the browser session, relays
// user tasks into turns, and gathers safety acknowledgments from the
// operator between turns.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/entrhq/surf/pkg/agent"
	"github.com/entrhq/surf/pkg/computer/playwright"
	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/llm/openai"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/tools/captcha"
	"github.com/entrhq/surf/pkg/types"
)

const version = "0.1.0"

const defaultInstructions = "You are a careful web-browsing assistant controlling a real browser " +
	"through discrete UI actions. Work step by step from what the screenshot shows. " +
	"When a robot check with a text challenge appears, click its answer field and use the " +
	"solve_captcha tool. When the task is done, reply with a plain summary and stop acting."

// cliFlags holds command-line overrides on top of the file config. The
// set map records which flags were given explicitly, so a boolean flag
// can override the file config in both directions.
type cliFlags struct {
	task       string
	configPath string
	model      string
	startURL   string
	maxRounds  int
	headless   bool
	showImages bool
	set        map[string]bool
}

func main() {
	flags := parseFlags()

	if err := run(flags); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("surf: "+err.Error()))
		os.Exit(1)
	}
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}
	flag.StringVar(&flags.task, "task", "", "run a single task and exit (default: interactive)")
	flag.StringVar(&flags.configPath, "config", "", "config file path (default: ~/.surf/config.yaml)")
	flag.StringVar(&flags.model, "model", "", "computer-use model override")
	flag.StringVar(&flags.startURL, "start-url", "", "initial page URL override")
	flag.IntVar(&flags.maxRounds, "max-rounds", 0, "max model rounds per turn override")
	flag.BoolVar(&flags.headless, "headless", false, "run the browser without a window")
	flag.BoolVar(&flags.showImages, "show-images", false, "note each screenshot capture in the printed results")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	flags.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	if *showVersion {
		fmt.Printf("surf %s\n", version)
		os.Exit(0)
	}
	return flags
}

func run(flags *cliFlags) error {
	log, err := logging.NewLogger("cli")
	if err != nil {
		log.Warnf("file logging unavailable, using stderr: %v", err)
	}
	defer log.Close()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	client, err := openai.NewClient("", openai.WithModel(cfg.Model), baseURLOption(cfg))
	if err != nil {
		return err
	}

	chatOpts := []openai.ChatOption{}
	if cfg.ChatModel != "" {
		chatOpts = append(chatOpts, openai.WithChatModel(cfg.ChatModel))
	}
	if cfg.BaseURL != "" {
		chatOpts = append(chatOpts, openai.WithChatBaseURL(cfg.BaseURL))
	}
	chat, err := openai.NewChatClient("", chatOpts...)
	if err != nil {
		return err
	}

	policy, err := agent.NewURLPolicy(cfg.AllowedDomains, cfg.BlockedDomains)
	if err != nil {
		return err
	}

	comp := playwright.New(playwright.Options{
		Headless: cfg.Headless,
		Width:    cfg.Viewport.Width,
		Height:   cfg.Viewport.Height,
		StartURL: cfg.StartURL,
	})
	fmt.Println(styleInfo.Render("starting browser session..."))
	if err := comp.Start(); err != nil {
		return err
	}
	defer comp.Close()

	ag := agent.New(client, comp,
		agent.WithInstructions(defaultInstructions),
		agent.WithMaxRounds(cfg.MaxRounds),
		agent.WithURLPolicy(policy),
		agent.WithFunctionTool(captcha.New(comp, chat)),
	)

	// A signal cancels between loop transitions; the browser still gets
	// its deferred Close.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println(styleInfo.Render("\ninterrupted, finishing current action..."))
		cancel()
	}()

	session := &session{
		agent:      ag,
		log:        log,
		showImages: cfg.ShowImages,
		acks:       make(map[string]bool),
		stdin:      bufio.NewReader(os.Stdin),
	}

	if flags.task != "" {
		return session.runTask(ctx, flags.task)
	}
	return session.repl(ctx)
}

func loadConfig(flags *cliFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, flags)
	return cfg, nil
}

// applyOverrides layers explicit command-line flags over the file
// config. Boolean flags only override when given on the command line,
// so -show-images=false beats a config file that enables it.
func applyOverrides(cfg *config.Config, flags *cliFlags) {
	if flags.model != "" {
		cfg.Model = flags.model
	}
	if flags.startURL != "" {
		cfg.StartURL = flags.startURL
	}
	if flags.maxRounds > 0 {
		cfg.MaxRounds = flags.maxRounds
	}
	if flags.set["headless"] {
		cfg.Headless = flags.headless
	}
	if flags.set["show-images"] {
		cfg.ShowImages = flags.showImages
	}
}

func baseURLOption(cfg *config.Config) openai.ClientOption {
	if cfg.BaseURL != "" {
		return openai.WithBaseURL(cfg.BaseURL)
	}
	return func(*openai.Client) {}
}

// session threads the transcript and safety acknowledgments across turns.
type session struct {
	agent      *agent.Agent
	log        *logging.Logger
	transcript []types.Item
	acks       map[string]bool
	showImages bool
	stdin      *bufio.Reader
}

// repl reads tasks from stdin until EOF or "exit".
func (s *session) repl(ctx context.Context) error {
	fmt.Println(styleInfo.Render("surf " + version + " — type a task, or \"exit\" to quit"))
	for {
		fmt.Print(styleUser.Render("you> "))
		line, err := s.stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := s.runTask(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Println(styleError.Render("turn failed: " + err.Error()))
		}
	}
}

// runTask runs one user task, re-running the turn after the operator
// acknowledges any safety checks that blocked it.
func (s *session) runTask(ctx context.Context, task string) error {
	input := types.NewUserMessage(task)

	for {
		// The transcript keeps full screenshot payloads: the next turn's
		// request resends it item for item, and an opaque reference in an
		// image slot would be rejected there. showImages only affects
		// what gets printed.
		result, err := s.agent.RunTurn(ctx, s.transcript, input, agent.TurnConfig{
			SafetyAcknowledgments:  s.acks,
			ShowIntermediateImages: true,
		})
		if result != nil {
			s.transcript = append(s.transcript, input)
			s.transcript = append(s.transcript, result.Items...)
			s.printItems(result.Items)
			s.log.Infof("turn finished: %d rounds, %d new items, %d total tokens",
				result.Rounds, len(result.Items), result.Usage.TotalTokens)
		}
		if err != nil {
			return err
		}

		granted := s.collectAcknowledgments(result.Items)
		if granted == 0 {
			return nil
		}
		// Rerun with the fresh acknowledgments so the model can retry
		// the blocked action.
		input = types.NewUserMessage("The flagged safety checks have been acknowledged. Please continue.")
	}
}

// collectAcknowledgments prompts the operator for every unresolved
// safety check in the produced items and records the grants. Returns the
// number of checks granted. Blocked outputs are scanned as well as
// calls: URL-policy checks exist only there.
func (s *session) collectAcknowledgments(items []types.Item) int {
	granted := 0
	prompted := make(map[string]bool)
	for _, item := range items {
		if item.Type != types.ItemTypeComputerCall && item.Type != types.ItemTypeComputerCallOutput {
			continue
		}
		for _, check := range item.PendingSafetyChecks {
			if s.acks[check.ID] || prompted[check.ID] {
				continue
			}
			prompted[check.ID] = true
			fmt.Println(styleWarn.Render(fmt.Sprintf("safety check %s (%s): %s", check.ID, check.Code, check.Message)))
			fmt.Print(styleUser.Render("acknowledge and allow? [y/N] "))
			answer, err := s.stdin.ReadString('\n')
			if err != nil {
				return granted
			}
			if strings.EqualFold(strings.TrimSpace(answer), "y") {
				s.acks[check.ID] = true
				granted++
			}
		}
	}
	return granted
}

// printItems renders the turn's new items for the operator.
func (s *session) printItems(items []types.Item) {
	for _, item := range items {
		switch item.Type {
		case types.ItemTypeMessage:
			if item.Role == types.RoleAssistant {
				fmt.Println(styleAssistant.Render("surf> ") + item.Content)
			}
		case types.ItemTypeReasoning:
			if item.Content != "" {
				fmt.Println(styleDim.Render("thinking: " + item.Content))
			}
		case types.ItemTypeComputerCall:
			fmt.Println(styleDim.Render("action: " + item.Action.String()))
		case types.ItemTypeComputerCallOutput:
			if item.Error != "" {
				fmt.Println(styleWarn.Render(item.Error))
			} else if s.showImages && item.Screenshot != nil {
				note := fmt.Sprintf("screenshot captured (%d bytes)", len(item.Screenshot.ImageURL))
				if item.CurrentURL != "" {
					note += " at " + item.CurrentURL
				}
				fmt.Println(styleDim.Render(note))
			}
		case types.ItemTypeFunctionCall:
			fmt.Println(styleDim.Render("tool: " + item.Name))
		case types.ItemTypeFunctionCallOutput:
			fmt.Println(styleDim.Render("tool result: " + item.Output))
		}
	}
}
