package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/splinterstice/clientapp/client"
)

// --------------------------------------------------------------------
// Direct messages
// --------------------------------------------------------------------

func newSendMessageCmd(o *rootOptions) *cobra.Command {
	var to, text string
	cmd := &cobra.Command{
		Use:   "send-message",
		Short: "Send a direct message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, "send-message", func(ctx context.Context, c *client.Client) (any, error) {
				return c.SendMessage(ctx, to, text)
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient user ID (required)")
	cmd.Flags().StringVarP(&text, "message", "m", "", "Message text (required)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newGetMessagesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-messages",
		Short: "List your direct messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, "get-messages", func(ctx context.Context, c *client.Client) (any, error) {
				return c.GetMessages(ctx)
			})
		},
	}
}

// --------------------------------------------------------------------
// Friends, rooms and single-user admin actions
// --------------------------------------------------------------------

// newIDCmd builds a command that takes one required ID flag.
func newIDCmd(o *rootOptions, use, short, flag, flagUsage string, call func(context.Context, *client.Client, string) (any, error)) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, use, func(ctx context.Context, c *client.Client) (any, error) {
				return call(ctx, c, id)
			})
		},
	}
	cmd.Flags().StringVar(&id, flag, "", flagUsage+" (required)")
	_ = cmd.MarkFlagRequired(flag)
	return cmd
}

func newFriendRequestCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "friend-request", "Send a friend request", "user-id", "User to befriend",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.SendFriendRequest(ctx, id) })
}

func newRemoveFriendCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "remove-friend", "Remove a friend", "user-id", "Friend to remove",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.RemoveFriend(ctx, id) })
}

func newJoinRoomCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "join-room", "Join a chat room", "room-id", "Room to join",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.JoinChatRoom(ctx, id) })
}

func newLeaveRoomCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "leave-room", "Leave a chat room", "room-id", "Room to leave",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.LeaveChatRoom(ctx, id) })
}

func newPromoteCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "promote", "Promote a user to moderator", "user-id", "User to promote",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.PromoteUser(ctx, id) })
}

func newBanCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "ban", "Ban a user", "user-id", "User to ban",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.BanUser(ctx, id) })
}

func newResetKeysCmd(o *rootOptions) *cobra.Command {
	return newIDCmd(o, "reset-keys", "Issue a user a new key pair", "user-id", "User whose keys are reset",
		func(ctx context.Context, c *client.Client, id string) (any, error) { return c.ResetKeys(ctx, id) })
}

func newRoomMessageCmd(o *rootOptions) *cobra.Command {
	var roomID, text string
	cmd := &cobra.Command{
		Use:   "room-message",
		Short: "Post a message to a chat room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, "room-message", func(ctx context.Context, c *client.Client) (any, error) {
				return c.SendChatRoomMessage(ctx, roomID, text)
			})
		},
	}
	cmd.Flags().StringVar(&roomID, "room-id", "", "Room ID (required)")
	cmd.Flags().StringVarP(&text, "message", "m", "", "Message text (required)")
	_ = cmd.MarkFlagRequired("room-id")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

// --------------------------------------------------------------------
// Files
// --------------------------------------------------------------------

func newUploadCmd(o *rootOptions) *cobra.Command {
	var path, name, contentType string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a file (use --file - to read stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if path == "-" {
				r = cmd.InOrStdin()
				if name == "" {
					name = "stdin"
				}
			} else {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
				if name == "" {
					name = filepath.Base(path)
				}
			}
			return run(cmd, o, "upload", func(ctx context.Context, c *client.Client) (any, error) {
				return c.UploadFile(ctx, client.File{Name: name, ContentType: contentType, Content: r})
			})
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "Path of the file to upload (required)")
	cmd.Flags().StringVar(&name, "name", "", "File name sent to the server (defaults to the base name)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type (detected when empty)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------
// Administration
// --------------------------------------------------------------------

func newInviteCmd(o *rootOptions) *cobra.Command {
	var method, target, network string
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite a user by email or URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := client.InviteMethod(strings.ToLower(method))
			if m != client.InviteByEmail && m != client.InviteByURL {
				return fmt.Errorf("--method must be email or url, got %q", method)
			}
			n := client.Network(strings.ToUpper(network))
			if n != client.NetworkTOR && n != client.NetworkI2P {
				return fmt.Errorf("--network must be TOR or I2P, got %q", network)
			}
			return run(cmd, o, "invite", func(ctx context.Context, c *client.Client) (any, error) {
				return c.InviteUser(ctx, m, target, n)
			})
		},
	}
	cmd.Flags().StringVar(&method, "method", string(client.InviteByEmail), "Delivery method: email or url")
	cmd.Flags().StringVar(&target, "target", "", "Email address or URL to invite (required)")
	cmd.Flags().StringVar(&network, "network", string(client.NetworkTOR), "Network: TOR or I2P")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newEditUserCmd(o *rootOptions) *cobra.Command {
	var userID string
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit-user",
		Short: "Edit user fields, e.g. --set display_name=Alice --set role=moderator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseUpdates(sets)
			if err != nil {
				return err
			}
			return run(cmd, o, "edit-user", func(ctx context.Context, c *client.Client) (any, error) {
				return c.EditUser(ctx, userID, updates)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User to edit (required)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field update as key=value; JSON values are decoded (repeatable)")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

// parseUpdates turns key=value pairs into an update map. Values that parse as
// JSON (numbers, booleans, quoted strings, objects) keep their JSON type;
// anything else is sent as a plain string.
func parseUpdates(pairs []string) (client.UserUpdates, error) {
	updates := client.UserUpdates{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			updates[k] = decoded
		} else {
			updates[k] = v
		}
	}
	return updates, nil
}
