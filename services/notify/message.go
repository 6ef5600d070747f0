package notify

import (
	"fmt"
	"strings"

	"github.com/studiokarsa/trackline-backend/models"
)

// TrackingLink builds the public magic link for a project token.
func TrackingLink(baseURL, token string) string {
	return fmt.Sprintf("%s/track/%s", strings.TrimSuffix(baseURL, "/"), token)
}

// WelcomeMessage is sent once, right after a project is created. Asterisks
// are WhatsApp bold markup.
func WelcomeMessage(clientName, projectName, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s! 👋\n\n", clientName)
	fmt.Fprintf(&b, "Proyek *%s* sudah terdaftar dan mulai kami kerjakan.\n\n", projectName)
	b.WriteString("Pantau perkembangannya kapan saja lewat tautan berikut:\n")
	b.WriteString(link)
	b.WriteString("\n\nSimpan tautan ini ya, tidak perlu login untuk membukanya.")
	return b.String()
}

// ProgressMessage is sent when the admin logs progress with notification
// enabled.
func ProgressMessage(projectName, title string, percentage int, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Update proyek *%s*:\n\n", projectName)
	fmt.Fprintf(&b, "%s — progres saat ini *%d%%*.\n\n", title, percentage)
	if percentage == 100 {
		b.WriteString("Proyek sudah selesai! 🎉\n\n")
	}
	b.WriteString("Detail lengkap:\n")
	b.WriteString(link)
	return b.String()
}

// RecoveryMessage lists every tracking link registered under one phone
// number.
func RecoveryMessage(baseURL string, projects []*models.Project) string {
	var b strings.Builder
	b.WriteString("Berikut tautan pelacakan proyek Anda:\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "\n*%s*\n%s\n", p.ProjectName, TrackingLink(baseURL, p.Token))
	}
	return b.String()
}
