// Package roles maintains the role assignments that announcement audiences
// are resolved from.
package roles

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/database"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/permission"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/bootstrap"
)

var env string

// roleStore is satisfied by *permission.Enforcer.
type roleStore interface {
	AssignRole(userID uint, role string) (bool, error)
	RevokeRole(userID uint, role string) (bool, error)
	RolesForUser(userID uint) ([]string, error)
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage user role assignments",
		Long:  `Assign, revoke and list the roles announcements are targeted at.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "assign <user-id> <role>",
			Short: "Give a user a role",
			Args:  cobra.ExactArgs(2),
			RunE: withStore(func(cmd *cobra.Command, store roleStore, args []string) error {
				return assign(cmd.OutOrStdout(), store, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "revoke <user-id> <role>",
			Short: "Take a role away from a user",
			Args:  cobra.ExactArgs(2),
			RunE: withStore(func(cmd *cobra.Command, store roleStore, args []string) error {
				return revoke(cmd.OutOrStdout(), store, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "List the roles a user holds",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, store roleStore, args []string) error {
				return list(cmd.OutOrStdout(), store, args[0])
			}),
		},
	)

	return cmd
}

func withStore(fn func(cmd *cobra.Command, store roleStore, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, log, err := bootstrap.InitWithDatabase(bootstrap.ResolveEnv(env))
		if err != nil {
			return err
		}
		defer database.Close()

		enforcer, err := permission.NewEnforcer(database.Get(), log)
		if err != nil {
			return err
		}
		if err := enforcer.SeedDefaultPolicies(); err != nil {
			return err
		}
		return fn(cmd, enforcer, args)
	}
}

func parseArgs(rawUserID, rawRole string) (uint, string, error) {
	id, err := strconv.ParseUint(rawUserID, 10, 64)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("invalid user id %q", rawUserID)
	}
	role := strings.ToLower(strings.TrimSpace(rawRole))
	if role == "" {
		return 0, "", fmt.Errorf("role must not be empty")
	}
	return uint(id), role, nil
}

func assign(out io.Writer, store roleStore, rawUserID, rawRole string) error {
	userID, role, err := parseArgs(rawUserID, rawRole)
	if err != nil {
		return err
	}
	added, err := store.AssignRole(userID, role)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(out, "user %d already has role %s\n", userID, role)
		return nil
	}
	fmt.Fprintf(out, "assigned role %s to user %d\n", role, userID)
	return nil
}

func revoke(out io.Writer, store roleStore, rawUserID, rawRole string) error {
	userID, role, err := parseArgs(rawUserID, rawRole)
	if err != nil {
		return err
	}
	removed, err := store.RevokeRole(userID, role)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(out, "user %d does not have role %s\n", userID, role)
		return nil
	}
	fmt.Fprintf(out, "revoked role %s from user %d\n", role, userID)
	return nil
}

func list(out io.Writer, store roleStore, rawUserID string) error {
	userID, _, err := parseArgs(rawUserID, "-")
	if err != nil {
		return err
	}
	roles, err := store.RolesForUser(userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		fmt.Fprintf(out, "user %d has no roles\n", userID)
		return nil
	}
	fmt.Fprintf(out, "user %d: %s\n", userID, strings.Join(roles, ", "))
	return nil
}
