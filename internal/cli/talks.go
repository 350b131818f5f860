package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

func newTalksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "talks",
		Short: "List and move talks through their lifecycle",
	}
	cmd.AddCommand(newTalksListCmd(app))
	cmd.AddCommand(newTalksStatusCmd(app))
	cmd.AddCommand(newTalksScheduleCmd(app))
	cmd.AddCommand(newTalksDeleteCmd(app))
	return cmd
}

func parseTalkID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid talk id %q", s)
	}
	return id, nil
}

func newTalksListCmd(app *App) *cobra.Command {
	var status string
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List talks as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := app.authenticated()
			if err != nil {
				return writeErr(cmd, err)
			}
			var f apiclient.TalkFilter
			if status != "" {
				s, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				f.Status = s
			}
			var talks []model.Talk
			if mine {
				talks, err = api.MyTalks(cmd.Context())
			} else {
				talks, err = api.ListTalks(cmd.Context(), f)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"data": talks})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only talks in this status")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only the talks of the token's owner")
	return cmd
}

func newTalksStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <talk-id> <STATUS>",
		Short: "Change the status of a talk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTalkID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			api, err := app.authenticated()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := app.actorContext(cmd.Context())
			t, err := app.controller(cmd).ChangeStatus(ctx, api, id, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"data": t})
		},
	}
}

func newTalksScheduleCmd(app *App) *cobra.Command {
	var slot lifecycle.Slot
	cmd := &cobra.Command{
		Use:   "schedule <talk-id>",
		Short: "Assign a room and a slot to an accepted talk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTalkID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			api, err := app.authenticated()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := app.actorContext(cmd.Context())
			t, err := app.controller(cmd).Schedule(ctx, api, id, slot)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"data": t})
		},
	}
	cmd.Flags().StringVar(&slot.RoomID, "room", "", "Room id")
	cmd.Flags().StringVar(&slot.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot.Time, "time", "", "Time (HH:MM)")
	return cmd
}

func newTalksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <talk-id>",
		Short: "Delete a talk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTalkID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			api, err := app.authenticated()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.controller(cmd).Delete(app.actorContext(cmd.Context()), api, id); err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "talk %d deleted\n", id)
			return err
		},
	}
}
