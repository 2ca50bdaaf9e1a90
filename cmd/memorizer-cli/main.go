// Command memorizer-cli drives the memorizer REST API from a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"memorizer/internal/cli"
	"memorizer/internal/client"
	"memorizer/internal/config"
	"memorizer/internal/core"
	applog "memorizer/internal/log"
	"memorizer/internal/view"
)

const usage = `usage: memorizer-cli [-api URL] [-layout merged|split] [-yes] <command> [args]

commands:
  list                     show entries and stats
  stats                    show stats only
  add-shift [-date -worker -start -end]
  add-song  [-date -title -artist -by]
  delete-shift <id>
  delete-song <id>
  payout                   reset the current balance
`

var errUsage = errors.New("invalid usage")

func main() {
	reportEnvError(os.Stderr, cli.LoadEnvFile())

	cfg, err := cli.LoadConfig(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cli.SetupLogger("error", applog.ComponentClient)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// reportEnvError warns about a .env file that exists but cannot be parsed.
func reportEnvError(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(w, "warning: ignoring .env:", err)
	}
}

type app struct {
	dash      *client.Dashboard
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	now       func() time.Time
}

func run(ctx context.Context, args []string, cfg *config.Config, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("memorizer-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", cfg.APIBaseURL, "memorizer API base URL")
	layout := fs.String("layout", cfg.UILayout, "list layout: merged or split")
	yes := fs.Bool("yes", false, "skip confirmation prompts")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg.APIBaseURL = *apiURL
	if err := cfg.ValidateClient(); err != nil {
		return err
	}

	a := &app{
		dash:      client.NewDashboard(client.New(cfg.APIBaseURL, cfg.ClientTimeout), view.ParseLayout(*layout)),
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: *yes,
		now:       time.Now,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return a.list(ctx)
	case "stats":
		return a.stats(ctx)
	case "add-shift":
		return a.addShift(ctx, rest)
	case "add-song":
		return a.addSong(ctx, rest)
	case "delete-shift":
		return a.delete(ctx, core.KindShift, rest)
	case "delete-song":
		return a.delete(ctx, core.KindSong, rest)
	case "payout":
		return a.payout(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) list(ctx context.Context) error {
	page, err := a.dash.Refresh(ctx)
	if err != nil {
		return err
	}
	return view.WriteText(a.out, page)
}

func (a *app) stats(ctx context.Context) error {
	s, err := a.dash.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Всего заработано: %s\nТекущий баланс: %s\n", s.Lifetime, s.Balance)
	return nil
}

func (a *app) today() core.Date {
	y, m, d := a.now().Date()
	return core.NewDate(y, int(m), d)
}

func (a *app) addShift(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-shift", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "shift date, YYYY-MM-DD (default today)")
	worker := fs.String("worker", core.DefaultWorkerName, "worker name")
	start := fs.String("start", "00:00", "start time, HH:MM")
	end := fs.String("end", "23:59", "end time, HH:MM")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	d, err := a.parseDate(*date)
	if err != nil {
		return err
	}
	in := client.NewShift{WorkerName: *worker, Date: d}
	if in.StartTime, err = core.ParseClock(*start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if in.EndTime, err = core.ParseClock(*end); err != nil {
		return fmt.Errorf("end: %w", err)
	}

	created, page, err := a.dash.AddShift(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Смена добавлена: #%d %s %s\n\n", created.ID, created.Date, created.Cost)
	return view.WriteText(a.out, page)
}

func (a *app) addSong(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-song", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "date folded into the default title (default today)")
	title := fs.String("title", "", "song title")
	artist := fs.String("artist", core.DefaultSongArtist, "artist")
	addedBy := fs.String("by", core.DefaultAddedBy, "who requested the song")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	d, err := a.parseDate(*date)
	if err != nil {
		return err
	}
	song := core.QuickSong(d)
	if *title != "" {
		song.Title = *title
	}
	in := client.NewSong{Title: song.Title, Artist: *artist, AddedBy: *addedBy}

	created, page, err := a.dash.AddSong(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Песня добавлена: #%d %s %s\n\n", created.ID, created.Title, created.Cost)
	return view.WriteText(a.out, page)
}

func (a *app) delete(ctx context.Context, kind core.EntryKind, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete-%s needs exactly one id", errUsage, kind)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", args[0])
	}

	prompt := view.ConfirmDeleteShift
	if kind == core.KindSong {
		prompt = view.ConfirmDeleteSong
	}
	if !a.confirm(prompt) {
		fmt.Fprintln(a.out, "Отменено")
		return nil
	}

	page, err := a.dash.Delete(ctx, kind, id)
	if err != nil {
		return err
	}
	return view.WriteText(a.out, page)
}

func (a *app) payout(ctx context.Context) error {
	if !a.confirm(view.ConfirmPayout) {
		fmt.Fprintln(a.out, "Отменено")
		return nil
	}
	page, err := a.dash.Payout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n\n", view.PayoutMessage)
	return view.WriteText(a.out, page)
}

// confirm reads one answer line; only an explicit yes proceeds.
func (a *app) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}

func (a *app) parseDate(raw string) (core.Date, error) {
	if raw == "" {
		return a.today(), nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("date: %w", err)
	}
	return d, nil
}
