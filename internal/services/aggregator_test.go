package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/models"
)

// memStore is an in-memory ChildStore plus ConversationStore sharing one
// child table, so a summary written through AddWithSummary is visible to
// the next Get.
type memStore struct {
	mu            sync.Mutex
	children      map[string]*models.Child
	conversations map[string][]models.Conversation
}

func newMemStore() *memStore {
	return &memStore{
		children:      make(map[string]*models.Child),
		conversations: make(map[string][]models.Conversation),
	}
}

func (m *memStore) Create(ctx context.Context, child *models.Child) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if child.ID == "" {
		child.ID = uuid.New().String()
	}
	clone := *child
	m.children[child.ID] = &clone
	return child.ID, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*models.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	child, ok := m.children[id]
	if !ok {
		return nil, apperr.NotFound("mem.get", errors.New("child not found"))
	}
	clone := *child
	if child.ChatSummary != nil {
		summary := *child.ChatSummary
		clone.ChatSummary = &summary
	}
	return &clone, nil
}

func (m *memStore) GetByParent(ctx context.Context, parentUUID string) (*models.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, child := range m.children {
		if child.ParentUUID == parentUUID {
			clone := *child
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("mem.get_by_parent", errors.New("child not found"))
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*models.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, child := range m.children {
		if child.Username == username {
			clone := *child
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("mem.get_by_username", errors.New("child not found"))
}

func (m *memStore) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	child, ok := m.children[id]
	if !ok {
		return apperr.NotFound("mem.update", errors.New("child not found"))
	}
	if points, ok := updates["points"].(int); ok {
		child.Points = points
	}
	if username, ok := updates["username"].(string); ok {
		child.Username = username
	}
	if hash, ok := updates["password_hash"].(string); ok {
		child.PasswordHash = hash
	}
	return nil
}

func (m *memStore) UpdateSummary(ctx context.Context, id string, summary *models.ConversationSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	child, ok := m.children[id]
	if !ok {
		return apperr.NotFound("mem.update_summary", errors.New("child not found"))
	}
	clone := *summary
	child.ChatSummary = &clone
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.children, id)
	return nil
}

func (m *memStore) AddWithSummary(ctx context.Context, childID string, conv *models.Conversation, summary *models.ConversationSummary) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	child, ok := m.children[childID]
	if !ok {
		return "", apperr.NotFound("mem.add_conversation", errors.New("child not found"))
	}

	stored := *conv
	stored.ID = uuid.New().String()
	stored.ChildID = childID
	m.conversations[childID] = append(m.conversations[childID], stored)

	clone := *summary
	child.ChatSummary = &clone
	return stored.ID, nil
}

func (m *memStore) ListByChild(ctx context.Context, childID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Conversation(nil), m.conversations[childID]...), nil
}

// scriptGenerator answers each aggregation prompt with a fixed string.
type scriptGenerator struct {
	mu     sync.Mutex
	calls  int
	stress string
	reason string
	merged string
	err    error
}

func (g *scriptGenerator) Name() string { return "script" }

func (g *scriptGenerator) Generate(ctx context.Context, req gateway.Request) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}

	switch {
	case req.Prompt == gateway.SummarizePrompt:
		return "talked about school and football", nil
	case req.Prompt == gateway.InterestsPrompt:
		return "playing football with friends", nil
	case req.Prompt == gateway.StressLevelPrompt:
		if g.stress != "" {
			return g.stress, nil
		}
		return "Low", nil
	case req.Prompt == gateway.StressReasonPrompt:
		if g.reason != "" {
			return g.reason, nil
		}
		return "Worried about a test", nil
	case strings.Contains(req.Prompt, "crisp reason for stress"):
		if g.merged != "" {
			return g.merged, nil
		}
		return "Still worried about school", nil
	}
	return "", errors.New("unexpected prompt: " + req.Prompt)
}

func (g *scriptGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestAggregator(store *memStore, gen gateway.Generator) *AggregatorService {
	return NewAggregatorService(store, store, gen, 5*time.Second, testLogger())
}

func seedChild(t *testing.T, store *memStore) string {
	t.Helper()
	id, err := store.Create(context.Background(), &models.Child{Name: "Asha", Age: 9})
	require.NoError(t, err)
	return id
}

func TestAddConversation_FirstConversationSeedsSummary(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	svc := newTestAggregator(store, &scriptGenerator{})

	emotions := []string{"happy", "happy", "sad"}
	conv, err := svc.AddConversation(context.Background(), childID, nil, emotions, 120)
	require.NoError(t, err)

	assert.Equal(t, "Happy", conv.Emotion)
	assert.Equal(t, 120.0, conv.Duration)
	assert.Equal(t, "Low", conv.Stress)
	assert.NotEmpty(t, conv.ID)

	child, err := store.Get(context.Background(), childID)
	require.NoError(t, err)
	require.NotNil(t, child.ChatSummary)
	assert.Equal(t, 1, child.ChatSummary.Conversations)
	assert.Equal(t, 120.0, child.ChatSummary.TotalDuration)
	assert.Equal(t, "Happy", child.ChatSummary.Emotion)
	assert.Equal(t, "Worried about a test", child.ChatSummary.StressSummary)

	list, err := store.ListByChild(context.Background(), childID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddConversation_SecondConversationMergesSummary(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	gen := &scriptGenerator{merged: "School pressure building up"}
	svc := newTestAggregator(store, gen)

	_, err := svc.AddConversation(context.Background(), childID, nil, []string{"happy"}, 60)
	require.NoError(t, err)

	_, err = svc.AddConversation(context.Background(), childID, nil, []string{"sad"}, 30)
	require.NoError(t, err)

	child, err := store.Get(context.Background(), childID)
	require.NoError(t, err)
	require.NotNil(t, child.ChatSummary)
	assert.Equal(t, 2, child.ChatSummary.Conversations)
	assert.Equal(t, 90.0, child.ChatSummary.TotalDuration)
	assert.Equal(t, "Sad", child.ChatSummary.Emotion)
	assert.Equal(t, "School pressure building up", child.ChatSummary.StressSummary)

	list, err := store.ListByChild(context.Background(), childID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAddConversation_EmptyEmotionsRejected(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	gen := &scriptGenerator{}
	svc := newTestAggregator(store, gen)

	_, err := svc.AddConversation(context.Background(), childID, nil, nil, 60)
	require.Error(t, err)
	assert.True(t, apperr.IsGeneration(err))

	// Nothing was generated or persisted.
	assert.Equal(t, 0, gen.callCount())
	child, err := store.Get(context.Background(), childID)
	require.NoError(t, err)
	assert.Nil(t, child.ChatSummary)
	list, _ := store.ListByChild(context.Background(), childID)
	assert.Empty(t, list)
}

func TestAddConversation_NegativeDurationRejected(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	gen := &scriptGenerator{}
	svc := newTestAggregator(store, gen)

	_, err := svc.AddConversation(context.Background(), childID, nil, []string{"happy"}, -5)
	require.Error(t, err)
	assert.True(t, apperr.IsGeneration(err))
	assert.Equal(t, 0, gen.callCount())
}

func TestAddConversation_UnknownChild(t *testing.T) {
	store := newMemStore()
	svc := newTestAggregator(store, &scriptGenerator{})

	_, err := svc.AddConversation(context.Background(), "missing", nil, []string{"happy"}, 60)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAddConversation_GatewayFailurePersistsNothing(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	gen := &scriptGenerator{err: errors.New("model overloaded")}
	svc := newTestAggregator(store, gen)

	_, err := svc.AddConversation(context.Background(), childID, nil, []string{"happy"}, 60)
	require.Error(t, err)
	assert.True(t, apperr.IsGeneration(err))

	child, err := store.Get(context.Background(), childID)
	require.NoError(t, err)
	assert.Nil(t, child.ChatSummary)
	list, _ := store.ListByChild(context.Background(), childID)
	assert.Empty(t, list)
}

func TestAddConversation_StressLevelTrimmed(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	svc := newTestAggregator(store, &scriptGenerator{stress: "Moderate\n"})

	conv, err := svc.AddConversation(context.Background(), childID, nil, []string{"neutral"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "Moderate", conv.Stress)
}

func TestAddConversation_ConcurrentSessionsAllCounted(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	svc := newTestAggregator(store, &scriptGenerator{})

	const sessions = 10
	var wg sync.WaitGroup
	errs := make([]error, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddConversation(context.Background(), childID, nil, []string{"happy"}, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	child, err := store.Get(context.Background(), childID)
	require.NoError(t, err)
	require.NotNil(t, child.ChatSummary)
	assert.Equal(t, sessions, child.ChatSummary.Conversations)
	assert.Equal(t, float64(sessions), child.ChatSummary.TotalDuration)

	list, err := store.ListByChild(context.Background(), childID)
	require.NoError(t, err)
	assert.Len(t, list, sessions)
}

func TestDominantEmotion(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{"single", []string{"happy"}, "happy"},
		{"majority", []string{"sad", "happy", "sad"}, "sad"},
		{"tie breaks to first seen", []string{"happy", "sad", "sad", "happy"}, "happy"},
		{"tie breaks to first seen reversed", []string{"sad", "happy", "happy", "sad"}, "sad"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DominantEmotion(tt.labels))
		})
	}
}

func TestTitleWord(t *testing.T) {
	assert.Equal(t, "Happy", titleWord("happy"))
	assert.Equal(t, "Happy", titleWord("HAPPY"))
	assert.Equal(t, "Very Calm", titleWord("very calm"))
	assert.Equal(t, "", titleWord(""))
}
