package email

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/ferdiebergado/roomkit/internal/config"
)

var _ Mailer = &SMTPMailer{}

type templateMap map[string]*template.Template

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	from      string
	pass      string
	host      string
	port      int
	sender    string
	templates templateMap
	sendMail  sendFunc
}

func (e *SMTPMailer) send(to []string, subject, body, contentType string) error {
	auth := smtp.PlainAuth("", e.from, e.pass, e.host)

	headers := "From: " + e.sender + "\r\n" +
		"To: " + strings.Join(to, ", ") + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"UTF-8\"\r\n\r\n"

	addr := net.JoinHostPort(e.host, strconv.Itoa(e.port))
	if err := e.sendMail(addr, auth, e.from, to, []byte(headers+body)); err != nil {
		return fmt.Errorf("sending email from %q to %q: %w", e.from, to, err)
	}

	slog.Info("Email sent.", "subject", subject)
	return nil
}

func (e *SMTPMailer) SendHTML(to []string, subject, tmplName string, data map[string]string) error {
	tmpl, ok := e.templates[tmplName]
	if !ok {
		return fmt.Errorf("template does not exist: %s", tmplName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute email template for subject %q: %w", subject, err)
	}

	if err := e.send(to, subject, buf.String(), "text/html"); err != nil {
		return fmt.Errorf("sending email to %q with subject %q: %w", to, subject, err)
	}

	return nil
}

func (e *SMTPMailer) SendPlain(to []string, subject, body string) error {
	return e.send(to, subject, body, "text/plain")
}

func NewSMTPMailer(cfg *config.SMTP, opts *config.Email) (*SMTPMailer, error) {
	return newSMTPMailer(cfg, opts, os.DirFS(opts.Templates), smtp.SendMail)
}

func newSMTPMailer(cfg *config.SMTP, opts *config.Email, templates fs.FS, send sendFunc) (*SMTPMailer, error) {
	tmplMap, err := parsePages(templates, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("parse pages at path %q with layout %q: %w", opts.Templates, opts.Layout, err)
	}

	return &SMTPMailer{
		from:      cfg.User,
		pass:      cfg.Password,
		host:      cfg.Host,
		port:      cfg.Port,
		sender:    opts.Sender,
		templates: tmplMap,
		sendMail:  send,
	}, nil
}

// parsePages parses every html page in fsys on top of a clone of the layout.
// Pages are keyed by their path without the extension.
func parsePages(fsys fs.FS, layoutFile string) (templateMap, error) {
	layoutTmpl, err := template.ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout %q: %w", layoutFile, err)
	}

	tmplMap := make(templateMap)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk templates at path %q: %w", path, err)
		}

		const suffix = ".html"
		if d.IsDir() || !strings.HasSuffix(path, suffix) || path == layoutFile {
			return nil
		}

		clone, err := layoutTmpl.Clone()
		if err != nil {
			return fmt.Errorf("clone layout for %q: %w", path, err)
		}

		page, err := clone.ParseFS(fsys, path)
		if err != nil {
			return fmt.Errorf("parse page %q: %w", path, err)
		}

		name := strings.TrimSuffix(path, suffix)
		tmplMap[name] = page
		slog.Debug("parsed page", "path", path, "name", name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pages templates: %w", err)
	}

	return tmplMap, nil
}
