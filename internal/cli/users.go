package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"usergrip/internal/domain"
	"usergrip/internal/ui/coordinator"
)

// errPermissionDenied is returned when the actor may not manage users
var errPermissionDenied = errors.New("permission denied: system:users:manage is required")

// userSummary is the printed form of a user
type userSummary struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	Roles       []string   `json:"roles"`
	RoleError   string     `json:"roleError,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Deleting    bool       `json:"deleting,omitempty"`
}

type userListing struct {
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
	Query string        `json:"query,omitempty"`
	Users []userSummary `json:"users"`
}

func summarize(snap coordinator.Snapshot) userListing {
	out := userListing{
		Page:  snap.PageNum,
		Size:  snap.PageSize,
		Total: snap.Page.Total,
		Query: snap.Query,
		Users: make([]userSummary, 0, len(snap.Rows)),
	}
	for _, row := range snap.Rows {
		u := row.User
		s := userSummary{
			Name:        u.Name(),
			DisplayName: u.Spec.DisplayName,
			Email:       u.Spec.Email,
			Roles:       row.Roles,
			Created:     u.Metadata.CreationTimestamp,
			Deleting:    u.PendingDeletion(),
		}
		if row.RoleErr != nil {
			s.RoleError = row.RoleErr.Error()
		}
		if s.Roles == nil {
			s.Roles = []string{}
		}
		out.Users = append(out.Users, s)
	}
	return out
}

func newListCmd(opts *Options) *cobra.Command {
	var (
		page  int
		query string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  `Lists one page of users, optionally filtered by a search query`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				logUsageCmd(cmd, cmd.UseLine())
				return fmt.Errorf("invalid page %d", page)
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.coord.Listing.ChangePage(cmd.Context(), page, a.cfg.UI.PageSize); err != nil {
				return err
			}
			a.coord.SetQuery(query)

			logJSONCmd(cmd, summarize(a.coord.Snapshot()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search query")
	return cmd
}

func newDeleteCmd(opts *Options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name> [name...]",
		Short: "Delete users",
		Long:  `Deletes users after confirmation. The signed in user is never deleted.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.coord.Bootstrap(ctx); err != nil {
				return err
			}
			if !a.coord.CanManage() {
				return errPermissionDenied
			}

			actor := a.coord.ActorName()
			targets := make([]string, 0, len(args))
			seen := make(map[string]bool, len(args))
			for _, name := range args {
				if name != actor && !seen[name] {
					seen[name] = true
					targets = append(targets, name)
				}
			}
			if len(targets) == 0 {
				return fmt.Errorf("refusing to delete the signed in user %s", actor)
			}

			dispatcher := a.coord.Actions
			if len(targets) == 1 {
				u, err := a.api.GetUser(ctx, targets[0])
				if err != nil {
					return fmt.Errorf("failed to fetch user %s: %w", targets[0], err)
				}
				dispatcher.RequestDeleteOne(u)
			} else if err := dispatcher.RequestDeleteMany(targets); err != nil {
				return err
			}

			pending, _ := dispatcher.Pending()
			if !yes && !confirm(cmd, pending.Prompt) {
				dispatcher.Cancel()
				logOKCmd(cmd, "cancelled")
				return nil
			}
			if err := dispatcher.Confirm(ctx); err != nil {
				return err
			}
			logOKCmd(cmd, "deleted: "+strings.Join(targets, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks prompt on the command's input and accepts y or yes
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

func newRolesCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles [name] [role...]",
		Short: "List roles or grant roles to a user",
		Long: `Without arguments lists the roles that can be granted.
With a user name prints the user's roles; with roles after it replaces them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.coord.Bootstrap(ctx); err != nil {
				return err
			}

			switch len(args) {
			case 0:
				type roleSummary struct {
					Name        string `json:"name"`
					DisplayName string `json:"displayName"`
				}
				roles := a.coord.Roles()
				out := make([]roleSummary, 0, len(roles))
				for _, r := range roles {
					out = append(out, roleSummary{Name: r.Metadata.Name, DisplayName: r.DisplayName()})
				}
				logJSONCmd(cmd, out)
				return nil

			case 1:
				u, err := a.api.GetUser(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to fetch user %s: %w", args[0], err)
				}
				names, err := u.RoleNames()
				if err != nil {
					return err
				}
				logJSONCmd(cmd, names)
				return nil
			}

			if !a.coord.CanManage() {
				return errPermissionDenied
			}
			if err := checkRoles(a.coord.Roles(), args[1:]); err != nil {
				return err
			}
			if err := a.coord.Actions.GrantRoles(ctx, args[0], args[1:]); err != nil {
				return err
			}
			logOKCmd(cmd, "ok")
			return nil
		},
	}
	return cmd
}

// checkRoles rejects role names the server did not offer
func checkRoles(known []domain.Role, names []string) error {
	valid := make(map[string]bool, len(known))
	for _, r := range known {
		valid[r.Metadata.Name] = true
	}
	var unknown []string
	for _, n := range names {
		if !valid[n] {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown roles: %s", strings.Join(unknown, ", "))
	}
	return nil
}
