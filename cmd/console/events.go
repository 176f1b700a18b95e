package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dosada05/arena-admin/mapper"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/store"
)

// eventsCmd builds the command group for one screen: tournaments or matches.
func eventsCmd(use, alias string) *cobra.Command {
	matchType := models.MatchTypeTournament
	if use == "matches" {
		matchType = models.MatchTypeMatch
	}

	group := &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   fmt.Sprintf("List and manage %s", use),
	}

	// open loads the list the same way the admin screen does on entry.
	open := func(cmd *cobra.Command) (*store.Store, error) {
		st := store.New(current.client, store.Options{
			MatchType: matchType,
			Policy:    current.cfg.Policy,
		}, current.logger)
		if err := st.Refresh(cmd.Context()); err != nil {
			return nil, requireLogin(err)
		}
		return st, nil
	}

	group.AddCommand(
		eventsListCmd(open),
		eventsShowCmd(open),
		eventsCreateCmd(open, matchType),
		eventsUpdateCmd(open),
		eventsReviewCmd("approve", open, (*store.Store).Approve),
		eventsReviewCmd("reject", open, (*store.Store).Reject),
		eventsDeleteCmd(open),
		eventsBannerCmd(),
	)
	return group
}

type opener func(cmd *cobra.Command) (*store.Store, error)

func eventsListCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Args:  cobra.ExactArgs(0),
		Short: "Show the current list",
	}
	p := cmd.Flags()
	status := p.String("status", "", "only events with this status")
	approval := p.String("approval", "", "only events with this approval status")
	game := p.String("game", "", "only events for this game")
	asJSON := p.Bool("json", false, "print JSON instead of a table")

	cmd.RunE = func(cmd *cobra.Command, _args []string) error {
		st, err := open(cmd)
		if err != nil {
			return err
		}
		var events []models.Event
		for _, e := range st.Events() {
			if *status != "" && string(e.Status) != *status {
				continue
			}
			if *approval != "" && string(e.ApprovalStatus) != *approval {
				continue
			}
			if *game != "" && string(e.Game) != *game {
				continue
			}
			events = append(events, e)
		}
		if *asJSON {
			return printJSON(cmd.OutOrStdout(), events)
		}
		return printEvents(cmd.OutOrStdout(), events)
	}
	return cmd
}

func eventsShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Args:  cobra.ExactArgs(1),
		Short: "Print one event",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			e, ok := st.Get(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], store.ErrNotFound)
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
}

func eventsCreateCmd(open opener, matchType models.MatchType) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Args:  cobra.ExactArgs(0),
		Short: "Create an event from flags",
	}
	var form models.EventForm
	p := cmd.Flags()
	p.StringVar(&form.Title, "title", "", "title")
	p.StringVar(&form.Game, "game", "", "freefire, pubg, cod, ludo or bgmi")
	p.StringVar(&form.Type, "type", "", "team format, e.g. solo or squad")
	p.StringVar(&form.Map, "map", "", "map name")
	p.StringVar(&form.Description, "description", "", "description")
	p.StringVar(&form.Rules, "rules", "", "rules text")
	p.StringVar(&form.EntryFee, "entry-fee", "0", "entry fee")
	p.StringVar(&form.PrizePool, "prize-pool", "0", "total prize")
	p.StringVar(&form.PerKill, "per-kill", "0", "reward per kill")
	p.StringVar(&form.MaxPlayers, "max-players", "", "capacity")
	p.StringVar(&form.RoomID, "room-id", "", "in-game room id")
	p.StringVar(&form.Password, "room-password", "", "in-game room password")
	p.StringVar(&form.ScheduleTime, "start", "", "start time, RFC 3339")
	p.StringVar(&form.EndTime, "end", "", "end time, RFC 3339 (default start + 4h)")
	p.StringVar(&form.BannerURL, "banner-url", "", "banner image URL")

	cmd.RunE = func(cmd *cobra.Command, _args []string) error {
		st, err := open(cmd)
		if err != nil {
			return err
		}
		form.MatchType = matchType
		if claims, err := current.session.WhoAmI(cmd.Context()); err == nil {
			form.CreatedBy = claims.UserID
		}
		created, err := st.Create(cmd.Context(), form)
		if err != nil {
			return requireLogin(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %s)\n", created.ID, created.Status, created.ApprovalStatus)
		return nil
	}
	return cmd
}

func eventsUpdateCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Args:  cobra.ExactArgs(1),
		Short: "Change the fields given as flags",
	}
	p := cmd.Flags()
	title := p.String("title", "", "title")
	game := p.String("game", "", "game")
	typ := p.String("type", "", "team format")
	mapName := p.String("map", "", "map name")
	description := p.String("description", "", "description")
	rules := p.String("rules", "", "rules text")
	entryFee := p.Int("entry-fee", 0, "entry fee")
	prizePool := p.Int("prize-pool", 0, "total prize")
	perKill := p.Int("per-kill", 0, "reward per kill")
	maxPlayers := p.Int("max-players", 0, "capacity")
	roomID := p.String("room-id", "", "in-game room id")
	password := p.String("room-password", "", "in-game room password")
	start := p.String("start", "", "start time, RFC 3339")
	end := p.String("end", "", "end time, RFC 3339")
	bannerURL := p.String("banner-url", "", "banner image URL")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var patch models.EventPatch
		changed := func(name string) bool { return cmd.Flags().Changed(name) }
		if changed("title") {
			patch.Title = title
		}
		if changed("game") {
			g := models.Game(*game)
			patch.Game = &g
		}
		if changed("type") {
			patch.Type = typ
		}
		if changed("map") {
			patch.Map = mapName
		}
		if changed("description") {
			patch.Description = description
		}
		if changed("rules") {
			patch.Rules = rules
		}
		if changed("entry-fee") {
			patch.EntryFee = entryFee
		}
		if changed("prize-pool") {
			patch.PrizePool = prizePool
		}
		if changed("per-kill") {
			patch.PerKill = perKill
		}
		if changed("max-players") {
			patch.MaxPlayers = maxPlayers
		}
		if changed("room-id") {
			patch.RoomID = roomID
		}
		if changed("room-password") {
			patch.Password = password
		}
		if changed("banner-url") {
			patch.BannerURL = bannerURL
		}
		for _, tf := range []struct {
			name string
			raw  *string
			dst  **time.Time
		}{{"start", start, &patch.ScheduleTime}, {"end", end, &patch.EndTime}} {
			if !changed(tf.name) {
				continue
			}
			t, ok := mapper.ParseTime(*tf.raw)
			if !ok {
				return fmt.Errorf("--%s: %q is not a valid time", tf.name, *tf.raw)
			}
			*tf.dst = &t
		}

		st, err := open(cmd)
		if err != nil {
			return err
		}
		saved, err := st.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return requireLogin(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", saved.ID)
		return nil
	}
	return cmd
}

func eventsReviewCmd(verb string, open opener, review func(*store.Store, context.Context, string) (models.Event, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Args:  cobra.ExactArgs(1),
		Short: fmt.Sprintf("%s a pending event", capitalize(verb)),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			e, err := review(st, cmd.Context(), args[0])
			if err != nil {
				return requireLogin(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: status=%s approval=%s\n", e.ID, e.Status, e.ApprovalStatus)
			return nil
		},
	}
}

func eventsDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Args:  cobra.ExactArgs(1),
		Short: "Delete an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return requireLogin(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func eventsBannerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banner ID FILE",
		Args:  cobra.ExactArgs(2),
		Short: "Upload a banner image",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			res := current.client.UploadBanner(cmd.Context(), args[0], f.Name(),
				mime.TypeByExtension(filepath.Ext(f.Name())), f)
			if err := res.Err(); err != nil {
				return requireLogin(err)
			}
			if res.Data != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "banner: %s\n", res.Data.BannerURL)
			}
			return nil
		},
	}
}
