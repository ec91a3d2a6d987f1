package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"notes_e2e/application/audit"
	"notes_e2e/application/pages"
	"notes_e2e/application/session"
	"notes_e2e/domain/entities"
	"notes_e2e/domain/interfaces"
	"notes_e2e/infrastructure/browser"
	"notes_e2e/infrastructure/config"
	"notes_e2e/infrastructure/logging"
	"notes_e2e/infrastructure/security"
	"notes_e2e/infrastructure/storage"
)

// PageNames lists the pages the audit knows, in report order
var PageNames = []string{"login", "register", "forgot-password", "dashboard"}

type TerminalInterface struct {
	cfg      *config.Config
	factory  interfaces.DriverFactory
	sessions *session.Manager
	logger   *logrus.Logger
	out      io.Writer
	reader   *bufio.Reader
}

// NewTerminalInterface starts the configured browser backend
func NewTerminalInterface(cfg *config.Config) (*TerminalInterface, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	factory, err := browser.NewFactory(cfg.BrowserOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	guard := security.NewSecurityLayer(logger, cfg.ReadOnly)
	store := storage.NewBrowserState(cfg.StatePath)

	return &TerminalInterface{
		cfg:      cfg,
		factory:  factory,
		sessions: session.NewManager(factory, store, guard, cfg.Timeouts, cfg.BaseURL, logger),
		logger:   logger,
		out:      os.Stdout,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run audits every page and prints the report. It reports whether a page
// that loaded is missing a target.
func (t *TerminalInterface) Run(ctx context.Context, asJSON bool) (bool, error) {
	infos, err := t.Audit(ctx, PageNames...)
	if err != nil {
		return false, err
	}

	if asJSON {
		err = PrintJSON(t.out, infos)
	} else {
		err = PrintReport(t.out, infos)
	}
	return audit.Broken(infos), err
}

// Audit audits the named pages. The dashboard is audited signed in when
// credentials are configured; otherwise it is expected to redirect.
func (t *TerminalInterface) Audit(ctx context.Context, names ...string) ([]entities.PageInfo, error) {
	tab, err := t.sessions.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	var infos []entities.PageInfo
	for _, name := range names {
		if name == "dashboard" && t.cfg.HasCredentials() {
			infos = append(infos, t.auditDashboard(ctx))
			continue
		}
		page, err := pageByName(tab, t.cfg.BaseURL, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, audit.NewAuditor(tab.Primitives).Audit(ctx, name, page))
	}
	return infos, nil
}

func (t *TerminalInterface) auditDashboard(ctx context.Context) entities.PageInfo {
	tab, err := t.sessions.OpenAuthenticated(ctx, t.cfg.Email, t.cfg.Password)
	if err != nil {
		return entities.PageInfo{Page: "dashboard", Err: err.Error()}
	}
	defer tab.Close()
	return audit.NewAuditor(tab.Primitives).Audit(ctx, "dashboard", pages.NewDashboardPage(tab.Primitives, t.cfg.BaseURL))
}

func pageByName(tab *session.Tab, baseURL, name string) (audit.Page, error) {
	switch name {
	case "login":
		return pages.NewLoginPage(tab.Primitives, baseURL), nil
	case "register":
		return pages.NewRegisterPage(tab.Primitives, baseURL), nil
	case "forgot-password":
		return pages.NewForgotPasswordPage(tab.Primitives, baseURL), nil
	case "dashboard":
		return pages.NewDashboardPage(tab.Primitives, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown page %q (known: %s)", name, strings.Join(PageNames, ", "))
	}
}

// Interactive reads page names from stdin and audits each until quit
func (t *TerminalInterface) Interactive(ctx context.Context) error {
	fmt.Fprintln(t.out, "Notes E2E selector audit")
	fmt.Fprintln(t.out, "========================")
	fmt.Fprintf(t.out, "Enter a page (%s), 'all', or 'quit' to exit\n\n", strings.Join(PageNames, ", "))

	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" || input == "q" {
			return nil
		}

		names := []string{input}
		if input == "all" {
			names = PageNames
		}
		infos, err := t.Audit(ctx, names...)
		if err != nil {
			fmt.Fprintf(t.out, "\nAudit failed: %v\n\n", err)
			continue
		}
		if err := PrintReport(t.out, infos); err != nil {
			return err
		}
	}
}

func (t *TerminalInterface) Close() error {
	return t.factory.Close()
}
