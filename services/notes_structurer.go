package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/config"
)

// NotesColumns is the schema of the structured notes dataset.
var NotesColumns = []string{"full_name", "address", "email", "phone", "notes", "source"}

var (
	emailPattern   = regexp.MustCompile(`([a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+)`)
	namePattern    = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+\b`)
	addressPattern = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z0-9 .'-]+?\s(?:road|rd|street|st|avenue|ave|court|ct|drive|dr|crescent|cres|boulevard|blvd|lane|ln|way|place|pl)\b.*`)
)

// Contact is one row of the structured notes dataset.
type Contact struct {
	FullName string
	Address  string
	Email    string
	Phone    string
	Notes    string
	Source   string
}

func (c Contact) row() []string {
	return []string{c.FullName, c.Address, c.Email, c.Phone, c.Notes, c.Source}
}

// NotesStructurer turns the free-text notes export into a contact table.
type NotesStructurer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotesStructurer creates the generator for the structured notes dataset.
func NewNotesStructurer(cfg *config.Config, logger *zap.Logger) *NotesStructurer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesStructurer{cfg: cfg, logger: logger.Named("notes")}
}

func (n *NotesStructurer) Output() string     { return n.cfg.NotesOutput }
func (n *NotesStructurer) Supersedes() string { return n.cfg.NotesSource }

func (n *NotesStructurer) Available() bool {
	_, err := os.Stat(n.cfg.Path(n.cfg.NotesSource))
	return err == nil
}

// Generate reads the raw export and writes the structured dataset.
func (n *NotesStructurer) Generate(ctx context.Context) error {
	src := n.cfg.Path(n.cfg.NotesSource)
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, src)
	}

	contacts, err := n.Structure(ctx, string(content))
	if err != nil {
		return err
	}

	rows := make([][]string, len(contacts))
	for i, c := range contacts {
		rows[i] = c.row()
	}
	out := n.cfg.Path(n.cfg.NotesOutput)
	if err := WriteCSVFile(out, NotesColumns, rows); err != nil {
		return err
	}
	n.logger.Info("structured notes written", zap.String("file", out), zap.Int("contacts", len(contacts)))
	return nil
}

// Structure extracts contacts from text: first every configured contact, then
// any chunk of text carrying an email or phone number. Contacts are unique by
// case-insensitive name; the first one found wins.
func (n *NotesStructurer) Structure(ctx context.Context, text string) ([]Contact, error) {
	rules := n.cfg.Rules.Notes
	phone, err := regexp.Compile(rules.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("phone pattern: %w", err)
	}
	source := filepath.Base(n.cfg.NotesSource)

	var contacts []Contact
	for _, rule := range rules.Contacts {
		found, err := n.configuredContact(text, rule, phone, source)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, found...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(rules.ChunkSize),
		textsplitter.WithChunkOverlap(rules.ChunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split notes: %w", err)
	}
	n.logger.Debug("split notes", zap.Int("chunks", len(chunks)))

	for _, chunk := range chunks {
		if c, ok := chunkContact(chunk, phone, source); ok {
			contacts = append(contacts, c)
		}
	}

	return dedupeContacts(contacts), nil
}

func (n *NotesStructurer) configuredContact(text string, rule config.ContactRule, phone *regexp.Regexp, source string) ([]Contact, error) {
	var out []Contact
	if rule.Pattern != "" {
		re, err := regexp.Compile("(?is)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("contact %s: %w", rule.Name, err)
		}
		rules := n.cfg.Rules.Notes
		for _, loc := range re.FindAllStringIndex(text, -1) {
			window := contextWindow(text, loc[0]-rules.ContextBefore, loc[1]+rules.ContextAfter)
			c := Contact{
				FullName: rule.Name,
				Address:  rule.Address,
				Email:    firstMatch(emailPattern, window, rule.Email),
				Phone:    firstMatch(phone, window, rule.Phone),
				Notes:    flatten(window),
				Source:   source,
			}
			out = append(out, c)
		}
		if len(out) > 0 {
			n.logger.Debug("found configured contact", zap.String("name", rule.Name), zap.Int("matches", len(out)))
		}
	}
	if len(out) == 0 && rule.AlwaysInclude {
		n.logger.Debug("adding configured contact from known information", zap.String("name", rule.Name))
		out = append(out, Contact{
			FullName: rule.Name,
			Address:  rule.Address,
			Email:    rule.Email,
			Phone:    rule.Phone,
			Notes:    "Added from known information",
			Source:   source,
		})
	}
	return out, nil
}

func chunkContact(chunk string, phone *regexp.Regexp, source string) (Contact, bool) {
	email := emailPattern.FindString(chunk)
	tel := phone.FindString(chunk)
	if email == "" && tel == "" {
		return Contact{}, false
	}
	name := namePattern.FindString(chunk)
	if name == "" {
		return Contact{}, false
	}
	var address string
	for _, line := range strings.Split(chunk, "\n") {
		if m := addressPattern.FindString(line); m != "" {
			address = strings.TrimSpace(m)
			break
		}
	}
	return Contact{
		FullName: name,
		Address:  address,
		Email:    email,
		Phone:    tel,
		Notes:    flatten(chunk),
		Source:   source,
	}, true
}

func dedupeContacts(contacts []Contact) []Contact {
	seen := make(map[string]bool)
	unique := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		key := strings.ToLower(c.FullName)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}

// contextWindow returns text[start:end] clamped to the string and widened to
// rune boundaries.
func contextWindow(text string, start, end int) string {
	start = max(start, 0)
	end = min(end, len(text))
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return text[start:end]
}

func firstMatch(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindString(s); m != "" {
		return m
	}
	return fallback
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
