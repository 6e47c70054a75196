// cmd/cogsworth/commands.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/novafaen/cogsworth/internal/config"
	"github.com/novafaen/cogsworth/internal/server"
	"github.com/novafaen/cogsworth/internal/state"
	"github.com/novafaen/cogsworth/internal/trigger"
)

const statusTimeout = 5 * time.Second

// configArg returns the config path argument, falling back to SMRT_CONFIG
// and then the default file name
func configArg(c *cli.Context) string {
	if p := c.Args().First(); p != "" {
		return p
	}
	if p := os.Getenv("SMRT_CONFIG"); p != "" {
		return p
	}
	return config.DefaultConfigPath
}

func cmdValidate(c *cli.Context) error {
	path := configArg(c)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, err := trigger.FromSchedule(cfg); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Fprintf(c.App.Writer, "%s is valid", path)
	fmt.Fprintf(c.App.Writer, " (%d events)\n", len(cfg.Events))
	return nil
}

func cmdSchedule(c *cli.Context) error {
	now := time.Now()
	if at := c.String("at"); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at %q: %w", at, err)
		}
		now = t
	}

	cfg, err := config.Load(configArg(c))
	if err != nil {
		return err
	}
	triggers, err := trigger.FromSchedule(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDAYS\tWHEN\tNEXT")
	for _, t := range triggers {
		s := trigger.Summarize(t, now)
		when := s.Time
		if s.Kind == trigger.KindSpan {
			when = s.Start + "-" + s.End
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s (%s)\n",
			s.Name, s.Kind, strings.Join(s.Days, ","), when,
			s.Next.Format(time.RFC3339), humanize.RelTime(s.Next, now, "ago", "from now"),
		)
	}
	fmt.Fprintf(w, "sun_rise/sun_set\t%s\tevery day\tlon %g lat %g\t-\n",
		trigger.KindSolar, cfg.Location.Longitude, cfg.Location.Latitude)
	return w.Flush()
}

func cmdHistory(c *cli.Context) error {
	path := c.String("db")
	if path == "" {
		return errors.New("no history database: pass --db or set SMRT_HISTORY_DB")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}

	db, err := state.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.GetHistory(c.String("event"), trigger.Kind(c.String("kind")), c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(c.App.Writer, "no events recorded")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIRED\tNAME\tKIND")
	for _, r := range records {
		fmt.Fprintf(w, "%s (%s)\t%s\t%s\n",
			r.FiredAt.Local().Format(time.RFC3339), humanize.Time(r.FiredAt), r.Name, r.Kind)
	}
	return w.Flush()
}

func cmdStatus(c *cli.Context) error {
	url := strings.TrimSuffix(c.String("url"), "/") + "/status"

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", server.ContentTypeStatus)

	client := &http.Client{Timeout: statusTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("querying %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error       string `json:"error"`
			Description string `json:"description"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("status request failed: %d %s %s", resp.StatusCode, body.Error, body.Description)
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}

	out := c.App.Writer
	statusColor := color.New(color.FgGreen)
	if st.Application.Status != "OK" {
		statusColor = color.New(color.FgRed)
	}
	fmt.Fprintf(out, "%s %s: ", st.Application.Name, st.Application.Version)
	statusColor.Fprintln(out, st.Application.Status)
	fmt.Fprintf(out, "uptime:      %s\n", time.Duration(st.SMRT.Uptime)*time.Second)
	fmt.Fprintf(out, "server time: %s\n", time.Unix(st.ServerTime, 0).Format(time.RFC3339))
	fmt.Fprintf(out, "requests:    %d total, %d successful, %d warning, %d error, %d bad\n",
		st.Status.Total, st.Status.Successful, st.Status.Warning, st.Status.Error, st.Status.Bad)
	return nil
}
