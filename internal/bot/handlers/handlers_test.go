package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/issuebot/internal/command"
	"github.com/edgard/issuebot/internal/config"
	"github.com/edgard/issuebot/internal/database"
	"github.com/edgard/issuebot/internal/issues"
)

const (
	testRoomID  = int64(-1001)
	testAdminID = int64(77)
	testBotID   = int64(999)
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		out = append(out, p.Text)
	}
	return out
}

type fakeStore struct {
	mu       sync.Mutex
	records  []database.LookupRecord
	stats    []database.OutcomeCount
	err      error
	ctxAlive bool
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) RecordLookup(ctx context.Context, r *database.LookupRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxAlive = ctx.Err() == nil
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeStore) LookupStats(context.Context) ([]database.OutcomeCount, error) {
	return f.stats, f.err
}

func (f *fakeStore) PruneLookups(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

type fakeLookuper struct {
	issue issues.Issue
	err   error
}

func (f fakeLookuper) Lookup(context.Context, int) (issues.Issue, error) {
	return f.issue, f.err
}

func newTestDeps(store database.Store, lookup command.Lookuper) HandlerDeps {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			RoomID:      testRoomID,
			AdminUserID: testAdminID,
			BotInfo:     &models.User{ID: testBotID, Username: "issuebot"},
		},
		Messages: config.DefaultMessages,
	}
	identity := command.Identity{Nickname: "issuebot", RoomID: testRoomID}
	return HandlerDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:   cfg,
		Store:    store,
		Commands: command.NewHandler(identity, lookup, nil, command.WithObserver(NewAuditObserver(store, nil))),
	}
}

func textUpdate(chatID, userID int64, username, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   10,
			Chat: models.Chat{ID: chatID},
			From: &models.User{ID: userID, Username: username, FirstName: "First"},
			Text: text,
		},
	}
}

func TestLookupHandler(t *testing.T) {
	t.Parallel()

	found := fakeLookuper{issue: issues.Issue{
		Number: 42,
		URL:    "https://github.com/o/r/issues/42",
		State:  "open",
		Title:  "Crash on join",
		Body:   "Steps...",
	}}

	tests := []struct {
		name    string
		lookup  command.Lookuper
		update  *models.Update
		want    []string
		records int
	}{
		{
			name:    "found issue",
			lookup:  found,
			update:  textUpdate(testRoomID, 1, "alice", "#42"),
			want:    []string{"alice: Issue #42: https://github.com/o/r/issues/42\n(open) Crash on join\nSteps..."},
			records: 1,
		},
		{
			name:   "malformed number",
			lookup: found,
			update: textUpdate(testRoomID, 1, "bob", "#abc"),
			want:   []string{`bob, "abc" doesn't look like a number. I couldn't lookup that issue for you.`},
		},
		{
			name:    "not found",
			lookup:  fakeLookuper{err: &issues.LookupError{Kind: issues.KindNotFound, Message: "404 Not Found"}},
			update:  textUpdate(testRoomID, 1, "carol", "#7"),
			want:    []string{"carol, the issue lookup failed. Error message: 404 Not Found"},
			records: 1,
		},
		{
			name:   "other room ignored",
			lookup: found,
			update: textUpdate(-5, 1, "alice", "#42"),
		},
		{
			name:   "own message ignored",
			lookup: found,
			update: textUpdate(testRoomID, testBotID, "issuebot", "#42"),
		},
		{
			name:   "first name used without username",
			lookup: found,
			update: textUpdate(testRoomID, 1, "", "#x"),
			want:   []string{`First, "x" doesn't look like a number. I couldn't lookup that issue for you.`},
		},
		{
			name:   "no sender",
			lookup: found,
			update: &models.Update{Message: &models.Message{Chat: models.Chat{ID: testRoomID}, Text: "#42"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			sender := &fakeSender{}
			h := lookupHandler{deps: newTestDeps(store, tt.lookup)}

			h.handle(context.Background(), sender, tt.update)

			if tt.want == nil {
				assert.Empty(t, sender.texts())
			} else {
				assert.Equal(t, tt.want, sender.texts())
				for _, p := range sender.sent {
					assert.Equal(t, tt.update.Message.Chat.ID, p.ChatID)
				}
			}
			assert.Len(t, store.records, tt.records)
		})
	}
}

func TestLookupHandler_DiscardsReplyOnShutdown(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sender := &fakeSender{}
	h := lookupHandler{deps: newTestDeps(store, fakeLookuper{err: context.Canceled})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.handle(ctx, sender, textUpdate(testRoomID, 1, "alice", "#42"))

	assert.Empty(t, sender.texts())
	require.Len(t, store.records, 1)
	assert.True(t, store.ctxAlive)
}

func TestLookupHandler_SplitsLongReplies(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("é", maxMessageRunes+10)
	sender := &fakeSender{}
	h := lookupHandler{deps: newTestDeps(&fakeStore{}, fakeLookuper{issue: issues.Issue{
		Number: 1, URL: "u", State: "open", Title: "t", Body: body,
	}})}

	h.handle(context.Background(), sender, textUpdate(testRoomID, 1, "alice", "#1"))

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "alice: Issue #1: u\n(open) t\n"+body, texts[0]+texts[1])
}

func TestSplitText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"abc"}, splitText("abc", 3))
	assert.Equal(t, []string{"ab", "cd", "e"}, splitText("abcde", 2))
	assert.Equal(t, []string{""}, splitText("", 2))
}

func TestAllowAdmin(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(&fakeStore{}, fakeLookuper{})

	sender := &fakeSender{}
	assert.True(t, allowAdmin(context.Background(), deps, sender, textUpdate(testRoomID, testAdminID, "admin", "/issue_stats")))
	assert.Empty(t, sender.texts())

	assert.False(t, allowAdmin(context.Background(), deps, sender, textUpdate(testRoomID, 1, "mallory", "/issue_stats")))
	assert.Equal(t, []string{config.DefaultMessages.Unauthorized}, sender.texts())

	assert.False(t, allowAdmin(context.Background(), deps, sender, &models.Update{}))
}

func TestStatsHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store *fakeStore
		want  string
	}{
		{
			name: "with stats",
			store: &fakeStore{stats: []database.OutcomeCount{
				{Outcome: "found", Count: 3, AvgDurationMS: 120},
				{Outcome: "not_found", Count: 1, AvgDurationMS: 80},
			}},
			want: config.DefaultMessages.StatsHeader + "\nfound: 3 (avg 120ms)\nnot_found: 1 (avg 80ms)\ntotal: 4",
		},
		{
			name:  "empty",
			store: &fakeStore{},
			want:  config.DefaultMessages.StatsEmpty,
		},
		{
			name:  "store error",
			store: &fakeStore{err: errors.New("disk full")},
			want:  config.DefaultMessages.StatsError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &fakeSender{}
			h := statsHandler{deps: newTestDeps(tt.store, fakeLookuper{})}
			h.handle(context.Background(), sender, textUpdate(testRoomID, testAdminID, "admin", "/issue_stats"))

			assert.Equal(t, []string{tt.want}, sender.texts())
		})
	}
}

func TestTextHandler_ReplacesBotName(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	deps := newTestDeps(&fakeStore{}, fakeLookuper{})
	h := textHandler{deps: deps, name: "help", text: func() string { return "ask @botname" }}

	h.handle(context.Background(), sender, textUpdate(testRoomID, 1, "alice", "/help"))

	assert.Equal(t, []string{"ask @issuebot"}, sender.texts())
}

func TestAuditObserver_LogsStoreErrors(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("locked")}
	o := NewAuditObserver(store, nil)

	assert.NotPanics(t, func() {
		o.ObserveLookup(context.Background(), command.LookupEvent{IssueID: 1, Outcome: "found", Duration: time.Second})
	})
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()

	registry := RegisterAllCommands(newTestDeps(&fakeStore{}, fakeLookuper{}))

	require.Contains(t, registry, "/start")
	require.Contains(t, registry, "/help")
	require.Contains(t, registry, "/issue_stats")
	require.Contains(t, registry, command.Prefix)

	assert.Len(t, registry["/issue_stats"].Middleware, 1)
	assert.Equal(t, bot.MatchTypePrefix, registry[command.Prefix].MatchType)
	for name, h := range registry {
		assert.NotNil(t, h.Handler, name)
	}
}
