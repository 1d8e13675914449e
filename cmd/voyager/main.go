// Command voyager drives a navigation controller from the terminal.
//
// Each input line is a command; the text view prints the resulting state:
//
//	root <name>               replace the root and clear the stack
//	push <name>               present with navigation
//	present <name> [option]   present with navigation, sheet, fullscreen_cover or popover
//	dismiss [option]          dismiss the front-most surface, or the named one
//	open <url>                handle a deep link
//	state                     print the current state
//	quit                      exit
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BrandonKowalski/voyager/pkg/voyager"
	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/BrandonKowalski/voyager/pkg/voyager/deeplink"
	"github.com/BrandonKowalski/voyager/pkg/voyager/input"
	"github.com/BrandonKowalski/voyager/pkg/voyager/locale"
	"github.com/BrandonKowalski/voyager/pkg/voyager/metrics"
	"github.com/BrandonKowalski/voyager/pkg/voyager/render/textview"
	"github.com/BrandonKowalski/voyager/pkg/voyager/router"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// errQuit signals caller-intent to exit the interactive loop.
var errQuit = errors.New("quit")

// frameInterval is how often the loop checks held buttons for repeats.
const frameInterval = constants.DefaultRepeatInterval / 2

// Screen is the route type of the demo: a named screen with an optional argument.
type Screen struct {
	Name string
	Arg  string
}

func (s Screen) String() string {
	if s.Arg == "" {
		return s.Name
	}
	return s.Name + ":" + s.Arg
}

func parseScreen(raw string) Screen {
	name, arg, _ := strings.Cut(raw, ":")
	return Screen{Name: name, Arg: arg}
}

// screenFactory builds screens from deep link rule route names. The first
// captured "id" becomes the argument.
func screenFactory(route string, params deeplink.Params) (Screen, bool) {
	arg := params.Get("id")
	if arg == "" {
		arg = params.Get(deeplink.RemainderParam)
	}
	return Screen{Name: route, Arg: arg}, true
}

func main() {
	configPath := flag.String("config", "", "path to config.toml (defaults to $VOYAGER_CONFIG)")
	device := flag.String("device", "", "evdev device for hardware back buttons (overrides config)")
	lang := flag.String("lang", "", "label language (overrides config)")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootName := flag.String("root", "home", "initial root screen")
	flag.Parse()

	cfg := voyager.DefaultConfig()
	if path, err := voyager.ConfigPath(*configPath); err == nil {
		loaded, err := voyager.LoadConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *lang != "" {
		cfg.Language = *lang
	}

	voyager.Init(cfg.Options)
	defer voyager.Close()
	logger := voyager.GetLogger()

	if err := run(cfg, *rootName, *metricsAddr, os.Stdin, os.Stdout); err != nil {
		logger.Error("voyager exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg voyager.Config, rootName, metricsAddr string, in io.Reader, out io.Writer) error {
	logger := voyager.GetLogger()

	resolver, err := deeplink.NewResolver(cfg.Deeplinks, screenFactory)
	if err != nil {
		return voyager.NewConfigError("deeplinks", err)
	}

	labels, err := locale.New(cfg.Language)
	if err != nil {
		return err
	}

	nav := router.NewFromProducer(func() Screen { return parseScreen(rootName) }, resolver)

	view := textview.New(out, nav, labels, func(s Screen) string { return s.String() })
	view.Attach()

	registry := prometheus.NewRegistry()
	nav.Subscribe(metrics.NewCollector[Screen](registry))
	if metricsAddr != "" {
		go serveMetrics(metricsAddr, registry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	clock := clockwork.NewRealClock()

	events := make(chan input.ButtonEvent, 16)
	if cfg.Device != "" {
		go func() {
			if err := input.Listen(ctx, cfg.Device, input.DefaultKeymap(), events); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("input listener stopped", "device", cfg.Device, "error", err)
			}
		}()
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	ticker := clock.NewTicker(frameInterval)
	defer ticker.Stop()

	s := &session{
		nav:        nav,
		view:       view,
		dispatcher: input.NewDispatcher(nav, input.DefaultBindings(), input.WithClock(clock)),
		out:        out,
	}

	fmt.Fprintln(out, view.Render(nav.Snapshot()))

	return s.loop(ctx, lines, events, ticker.Chan())
}

// session is the UI loop state: everything that touches the controller runs
// on the goroutine calling loop.
type session struct {
	nav        *router.Controller[Screen]
	view       *textview.View[Screen]
	dispatcher *input.Dispatcher[Screen]
	out        io.Writer
}

// loop applies commands and button events until ctx is done, lines is closed
// or a quit command arrives. Each frame tick drives hold repeat.
func (s *session) loop(ctx context.Context, lines <-chan string, events <-chan input.ButtonEvent, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames:
		case ev := <-events:
			s.dispatcher.HandleButton(ev.Button, ev.Pressed)
			s.dispatcher.Drain(events)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := execute(s.nav, s.view, s.out, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintln(s.out, "error:", err)
			}
		}
		s.dispatcher.Update()
	}
}

func execute(nav *router.Controller[Screen], view *textview.View[Screen], out io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "root":
		if len(args) != 1 {
			return fmt.Errorf("usage: root <name>")
		}
		nav.UpdateRoot(parseScreen(args[0]))
	case "push":
		if len(args) != 1 {
			return fmt.Errorf("usage: push <name>")
		}
		nav.Present(parseScreen(args[0]), router.Navigation, nil)
	case "present":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: present <name> [option]")
		}
		option := router.Navigation
		if len(args) == 2 {
			parsed, err := router.ParseOption(args[1])
			if err != nil {
				return err
			}
			option = parsed
		}
		screen := parseScreen(args[0])
		nav.Present(screen, option, func() {
			fmt.Fprintf(out, "closed %s\n", screen)
		})
	case "dismiss":
		if len(args) == 0 {
			nav.Dismiss()
			return nil
		}
		option, err := router.ParseOption(args[0])
		if err != nil {
			return err
		}
		nav.DismissOption(option)
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <url>")
		}
		link, err := deeplink.Parse(args[0])
		if err != nil {
			return err
		}
		before := nav.Revision()
		nav.HandleDeeplink(link)
		if nav.Revision() == before {
			fmt.Fprintf(out, "no route for %s\n", link)
		}
	case "state":
		fmt.Fprintln(out, view.Render(nav.Snapshot()))
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if err := http.ListenAndServe(addr, mux); err != nil {
		voyager.GetLogger().Error("metrics server stopped", "addr", addr, "error", err)
	}
}
