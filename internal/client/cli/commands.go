package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/zlvtv/TeamBridge-sub000/internal/client/feed"
	"github.com/zlvtv/TeamBridge-sub000/internal/filex"
)

// downloadsDirName is the subdirectory fetched photos are saved under.
const downloadsDirName = "downloads"

// Projects lists the projects of the configured organization.
func (a *App) Projects(ctx context.Context) error {
	projects, err := a.messageService.ListProjects(ctx, a.config.OrganizationID)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	for _, p := range projects {
		fmt.Fprintf(a.out, "%s  %s\n", p.ID, p.Name)
	}
	return nil
}

// Send prompts for a message body and posts it to the project.
func (a *App) Send(ctx context.Context, projectID string) error {
	text, err := GetMultiline(a.reader, "Enter message", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	msg, err := a.messageService.SendMessage(ctx, projectID, text)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "sent %s at %s\n", msg.ID, msg.CreatedAt.Format("15:04:05"))
	return nil
}

// Watch streams the project chat to the terminal until the user presses
// Enter. Every update reprints the full conversation; the organization is
// marked read when the watch ends.
func (a *App) Watch(ctx context.Context, projectID string) error {
	sub, err := a.messageService.SubscribeToMessages(ctx, projectID, func(msgs []feed.Message) {
		fmt.Fprintf(a.out, "--- %d message(s) ---\n", len(msgs))
		for _, m := range msgs {
			text := m.Text
			if text == "" {
				text = "<unreadable>"
			}
			fmt.Fprintf(a.out, "[%s] %s: %s\n", m.CreatedAt.Format("15:04:05"), m.SenderID, text)
		}
	}, feed.Options{
		OnState: func(state feed.State) {
			if state == feed.StateDisconnected {
				fmt.Fprintln(a.out, "(connection lost, retrying...)")
			}
		},
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	defer sub.Close()

	fmt.Fprintln(a.out, "(watching, press Enter to stop)")
	if _, err := a.reader.ReadString('\n'); err != nil {
		return err
	}

	if err := a.messageService.MarkOrganizationRead(ctx, a.config.OrganizationID); err != nil {
		log.Printf("Error: %s", err.Error())
	}
	return nil
}

// Photo uploads a local image file and posts it as a photo message.
func (a *App) Photo(ctx context.Context, projectID string) error {
	path, err := GetSimpleText(a.reader, "Enter image file path", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	msg, err := a.messageService.SendPhoto(ctx, projectID, data)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "posted photo %s\n", msg.ID)
	return nil
}

// View downloads a photo message into the downloads directory.
func (a *App) View(ctx context.Context, projectID string) error {
	id, err := GetSimpleText(a.reader, "Enter photo message id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	data, err := a.messageService.FetchPhoto(ctx, projectID, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	dir, err := filex.EnsureSubDir(downloadsDirName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	path := filepath.Join(dir, id+".jpg")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "saved to %s\n", path)
	return nil
}

// Delete removes a message by id.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter message id to delete", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.messageService.DeleteMessage(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintln(a.out, "deleted")
	return nil
}

// Unread reports whether the organization has unread messages.
func (a *App) Unread(ctx context.Context) error {
	if a.messageService.HasUnreadMessages(ctx, a.config.OrganizationID) {
		fmt.Fprintln(a.out, "unread messages: yes")
	} else {
		fmt.Fprintln(a.out, "unread messages: no")
	}
	return nil
}

// Read marks the organization as read.
func (a *App) Read(ctx context.Context) error {
	if err := a.messageService.MarkOrganizationRead(ctx, a.config.OrganizationID); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "marked read")
	return nil
}
