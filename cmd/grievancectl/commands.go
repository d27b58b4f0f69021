package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"grievance-portal/internal/dataservice"
	"grievance-portal/internal/models"
	"grievance-portal/internal/repository"
	"grievance-portal/internal/service"
	"grievance-portal/internal/session"

	"github.com/spf13/cobra"
)

type opener func(ctx context.Context, verbose bool) (dataservice.Client, *session.Store, func(), error)

type cliApp struct {
	out     io.Writer
	open    opener
	verbose bool

	client dataservice.Client
	sess   *session.Store
	close  func()
}

func newRootCmd(a *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "grievancectl",
		Short:         "Submit and manage civic grievances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log service activity to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.listCmd(),
		a.showCmd(),
		a.submitCmd(),
		a.statusCmd(),
		a.assignCmd(),
		a.commentCmd(),
		a.departmentsCmd(),
		a.uploadCmd(),
		a.analyticsCmd(),
		a.roleCmd(),
	)
	return root
}

func (a *cliApp) start(ctx context.Context) error {
	client, sess, closeFn, err := a.open(ctx, a.verbose)
	if err != nil {
		return err
	}
	a.client, a.sess, a.close = client, sess, closeFn
	if err := sess.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if _, tok, ok := sess.Active(); ok {
		client.SetToken(tok)
	}
	return nil
}

func (a *cliApp) shutdown() {
	if a.close != nil {
		a.close()
		a.close = nil
	}
}

// emit prints a successful result as JSON and turns a failed one into an exit error.
// An unauthorized answer while signed in means the stored token is dead.
// emit prints res for a call made with the stored token. An unauthorized
// answer means that token is no longer accepted, so the session is dropped.
func emit[T any](ctx context.Context, a *cliApp, res dataservice.Result[T]) error {
	if !res.Success && res.Kind == models.KindUnauthorized {
		if _, _, ok := a.sess.Active(); ok {
			_ = a.sess.Clear(ctx)
		}
	}
	return show(a, res)
}

// show prints res without touching the session. Used by commands that
// authenticate with credentials rather than the stored token.
func show[T any](a *cliApp, res dataservice.Result[T]) error {
	if !res.Success {
		return &exitErr{code: 1, msg: res.Error}
	}
	if res.Message != "" {
		fmt.Fprintln(a.out, res.Message)
		return nil
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Data)
}

func (a *cliApp) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			res := a.client.Login(ctx, email, password)
			if res.Success {
				if err := a.sess.Establish(ctx, res.Data.User, res.Data.Token); err != nil {
					return err
				}
			}
			return show(a, res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", os.Getenv("GRIEVANCE_PASSWORD"), "Password (defaults to $GRIEVANCE_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *cliApp) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			res := a.client.Logout(ctx)
			if err := a.sess.Clear(ctx); err != nil {
				return err
			}
			if !res.Success {
				// the local session is gone either way
				fmt.Fprintln(a.out, "logged out locally:", res.Error)
				return nil
			}
			return emit(ctx, a, res)
		},
	}
}

func (a *cliApp) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, ok := a.sess.Active(); !ok {
				return &exitErr{code: 1, msg: "not logged in"}
			}
			return emit(cmd.Context(), a, a.client.Me(cmd.Context()))
		},
	}
}

func (a *cliApp) registerCmd() *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a citizen account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return show(a, a.client.Register(cmd.Context(), in))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Full name")
	f.StringVar(&in.Email, "email", "", "Email")
	f.StringVar(&in.Phone, "phone", "", "Phone")
	f.StringVar(&in.Password, "password", "", "Password (6-72 characters)")
	return cmd
}

func (a *cliApp) listCmd() *cobra.Command {
	var f repository.GrievanceFilter
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grievances, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mine {
				u, _, ok := a.sess.Active()
				if !ok {
					return &exitErr{code: 1, msg: "--mine needs a signed-in user"}
				}
				f.OwnerID = u.ID
			}
			return emit(cmd.Context(), a, a.client.ListGrievances(cmd.Context(), f))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Status, "status", "", "pending, in_progress, resolved, rejected or all")
	fl.StringVar(&f.Category, "category", "", "Category")
	fl.StringVar(&f.Department, "department", "", "Department")
	fl.StringVar(&f.OwnerID, "owner", "", "Citizen id")
	fl.BoolVar(&mine, "mine", false, "Only grievances filed by the signed-in user")
	fl.IntVar(&f.Page, "page", 1, "Page number")
	fl.IntVar(&f.PageSize, "page-size", repository.DefaultPageSize, "Page size")
	return cmd
}

func (a *cliApp) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one grievance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.Context(), a, a.client.GetGrievance(cmd.Context(), args[0]))
		},
	}
}

func (a *cliApp) submitCmd() *cobra.Command {
	var in service.CreateGrievanceInput
	var lat, lng float64
	var address string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a new grievance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fl := cmd.Flags()
			if address != "" || fl.Changed("lat") || fl.Changed("lng") {
				loc := &models.Location{Address: address}
				if fl.Changed("lat") && fl.Changed("lng") {
					loc.Latitude, loc.Longitude = &lat, &lng
				}
				in.Location = loc
			}
			return emit(cmd.Context(), a, a.client.CreateGrievance(cmd.Context(), in))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Short summary")
	f.StringVar(&in.Description, "description", "", "What happened")
	f.StringVar(&in.Category, "category", "", "One of: "+strings.Join(models.Categories, ", "))
	f.StringVar(&in.Department, "department", "", "Responsible department")
	f.StringVar(&in.Priority, "priority", models.PriorityMedium, "low, medium, high or urgent")
	f.StringVar(&address, "address", "", "Street address")
	f.Float64Var(&lat, "lat", 0, "Latitude")
	f.Float64Var(&lng, "lng", 0, "Longitude")
	f.StringSliceVar(&in.Attachments, "attach", nil, "Attachment URL from `upload` (repeatable)")
	return cmd
}

func (a *cliApp) statusCmd() *cobra.Command {
	var comment string
	var version int
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a grievance along its lifecycle (staff)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.Context(), a, a.client.UpdateGrievanceStatus(cmd.Context(), args[0], models.Status(args[1]), comment, version))
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Public note recorded with the change")
	cmd.Flags().IntVar(&version, "version", 0, "Fail unless the grievance is still at this version")
	return cmd
}

func (a *cliApp) assignCmd() *cobra.Command {
	var version int
	cmd := &cobra.Command{
		Use:   "assign <id> <user-id>",
		Short: "Assign a grievance to a staff member (staff)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.Context(), a, a.client.AssignGrievance(cmd.Context(), args[0], args[1], version))
		},
	}
	cmd.Flags().IntVar(&version, "version", 0, "Fail unless the grievance is still at this version")
	return cmd
}

func (a *cliApp) commentCmd() *cobra.Command {
	var internal bool
	cmd := &cobra.Command{
		Use:   "comment <id> <message>",
		Short: "Comment on a grievance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.Context(), a, a.client.AddComment(cmd.Context(), args[0], args[1], internal))
		},
	}
	cmd.Flags().BoolVar(&internal, "internal", false, "Visible to staff only")
	return cmd
}

func (a *cliApp) departmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd.Context(), a, a.client.ListDepartments(cmd.Context()))
		},
	}
}

func (a *cliApp) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an attachment and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return emit(cmd.Context(), a, a.client.UploadFile(cmd.Context(), f.Name(), f))
		},
	}
}

func (a *cliApp) analyticsCmd() *cobra.Command {
	var timeframe string
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summary statistics (staff)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd.Context(), a, a.client.GetAnalytics(cmd.Context(), timeframe))
		},
	}
	cmd.Flags().StringVar(&timeframe, "timeframe", "30d", "7d, 30d, 90d or 1y")
	return cmd
}

func (a *cliApp) roleCmd() *cobra.Command {
	var department string
	cmd := &cobra.Command{
		Use:   "role <user-id> <role>",
		Short: "Change a user's role (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.Context(), a, a.client.UpdateUserRole(cmd.Context(), args[0], args[1], department))
		},
	}
	cmd.Flags().StringVar(&department, "department", "", "Department for department staff")
	return cmd
}
