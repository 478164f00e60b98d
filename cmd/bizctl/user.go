package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub000/internal/app"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard users",
	}

	var in dto.CreateUserRequest
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a user with a bcrypt-hashed password",
		Example: "  bizctl user create --email ops@example.com --name Ops --role admin --password 's3cret-pass'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			container, err := app.Build(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer container.Close()

			user, err := container.Auth.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			c.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "login email")
	create.Flags().StringVar(&in.Name, "name", "", "display name")
	create.Flags().StringVar(&in.Role, "role", entity.RoleStaff, "admin | staff")
	create.Flags().StringVar(&in.Password, "password", "", "initial password, at least 8 characters")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
