package dialog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/notify"
	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/jonathan/resume-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, data types.ResumeData) (*store.Store, *Manager) {
	t.Helper()
	s := store.New(store.WithNotifier(notify.NewCenter()))
	s.Initialize(types.NewEditableResume(data))
	n := 0
	m := NewManager(s, WithIDGenerator(func() string {
		n++
		return "new-" + string(rune('0'+n))
	}))
	return s, m
}

func withExperience() types.ResumeData {
	data := normalize.DefaultResumeData()
	data.Sections.Experience.Items = []types.Experience{{
		ItemBase: types.ItemBase{ID: "exp-1"},
		Company:  "Analytical Engines",
		Position: "Analyst",
	}}
	return data
}

func TestRegistry_Total(t *testing.T) {
	r := NewRegistry()
	assert.ElementsMatch(t, IntentTypes(), r.Types())

	env := Env{Committer: store.New(), Dismisser: NewOrchestrator()}
	for _, it := range IntentTypes() {
		intent := Intent{Type: it}
		if _, op, ok := it.Section(); ok && op == OpUpdate {
			intent.Data = map[string]any{"id": "x"}
		}
		assert.NotNil(t, r.Render(intent, env), it)
	}
}

func TestRegistry_UnmappedRendersNothing(t *testing.T) {
	r := NewRegistry()
	env := Env{Committer: store.New(), Dismisser: NewOrchestrator()}

	assert.NotPanics(t, func() {
		assert.Nil(t, r.Render(Intent{Type: "resume.sections.legacy.create"}, env))
		assert.Nil(t, r.Render(Intent{Type: ""}, env))
	})
}

func TestRegistry_UpdateWithoutItemRendersNothing(t *testing.T) {
	r := NewRegistry()
	env := Env{Committer: store.New(), Dismisser: NewOrchestrator()}

	assert.Nil(t, r.Render(Intent{Type: SectionIntent(sections.KindSkills, OpUpdate)}, env))
	assert.Nil(t, r.Render(Intent{Type: SectionIntent(sections.KindSkills, OpUpdate), Data: map[string]any{"name": "Go"}}, env))
}

func TestManager_UpdateExperience(t *testing.T) {
	s, m := newFixture(t, withExperience())
	data, _ := s.Data()
	item := data.Sections.Experience.Items[0]

	m.Request(Intent{Type: "resume.sections.experience.update", Data: item})
	view := m.Current()
	require.NotNil(t, view)
	assert.Equal(t, item, view.Initial())

	err := m.Submit(json.RawMessage(`{"position": "Lead Analyst", "id": "spoofed"}`))
	require.NoError(t, err)

	data, _ = s.Data()
	require.Len(t, data.Sections.Experience.Items, 1)
	got := data.Sections.Experience.Items[0]
	assert.Equal(t, "exp-1", got.ID)
	assert.Equal(t, "Lead Analyst", got.Position)
	assert.Equal(t, "Analytical Engines", got.Company)
	assert.False(t, m.Orchestrator().IsOpen())
}

func TestManager_CreateAppendsWithFreshID(t *testing.T) {
	s, m := newFixture(t, withExperience())

	m.Request(Intent{Type: SectionIntent(sections.KindExperience, OpCreate)})
	require.NoError(t, m.Submit(json.RawMessage(`{"company": "Babbage & Co", "id": "exp-1"}`)))

	data, _ := s.Data()
	require.Len(t, data.Sections.Experience.Items, 2)
	assert.Equal(t, "new-1", data.Sections.Experience.Items[1].ID)
	assert.Equal(t, "Babbage & Co", data.Sections.Experience.Items[1].Company)
	assert.False(t, m.Orchestrator().IsOpen())
	assert.Equal(t, 2, s.PastLen())
}

func TestManager_ValidationKeepsDialogOpen(t *testing.T) {
	s, m := newFixture(t, normalize.DefaultResumeData())

	m.Request(Intent{Type: SectionIntent(sections.KindSkills, OpCreate)})
	err := m.Submit(json.RawMessage(`{"level": 9}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "level"}, fields)
	assert.True(t, m.Orchestrator().IsOpen())
	assert.Equal(t, 1, s.PastLen())
}

func TestManager_CancelDoesNotCommit(t *testing.T) {
	s, m := newFixture(t, withExperience())
	var sinkCalls int
	s.SetChangeSink(func(store.Snapshot) { sinkCalls++ })

	m.Request(Intent{Type: SectionIntent(sections.KindExperience, OpCreate)})
	m.Cancel()

	assert.False(t, m.Orchestrator().IsOpen())
	assert.Zero(t, sinkCalls)
	assert.Equal(t, 1, s.PastLen())
}

func TestManager_UpdateOfDeletedItemFails(t *testing.T) {
	s, m := newFixture(t, withExperience())
	data, _ := s.Data()
	item := data.Sections.Experience.Items[0]

	m.Request(Intent{Type: SectionIntent(sections.KindExperience, OpUpdate), Data: item})
	s.UpdateData(func(d *types.ResumeData) { d.Sections.Experience.Items = []types.Experience{} })

	err := m.Submit(json.RawMessage(`{"position": "x"}`))

	assert.ErrorIs(t, err, sections.ErrItemNotFound)
	assert.True(t, m.Orchestrator().IsOpen())
}

func TestManager_LockedSubmitCloses(t *testing.T) {
	s, m := newFixture(t, withExperience())
	s.SetLocked(true)

	m.Request(Intent{Type: SectionIntent(sections.KindExperience, OpCreate)})
	err := m.Submit(json.RawMessage(`{"company": "x"}`))

	assert.True(t, errors.Is(err, ErrLocked))
	assert.False(t, m.Orchestrator().IsOpen())
	data, _ := s.Data()
	assert.Len(t, data.Sections.Experience.Items, 1)
}

func TestManager_CustomSectionCreateAddsToLayout(t *testing.T) {
	s, m := newFixture(t, normalize.DefaultResumeData())

	m.Request(Intent{Type: SectionIntent(sections.KindCustom, OpCreate)})
	require.NoError(t, m.Submit(json.RawMessage(`{"title": "Talks"}`)))

	data, _ := s.Data()
	require.Len(t, data.CustomSections, 1)
	cs := data.CustomSections[0]
	assert.Equal(t, "new-1", cs.ID)
	assert.Equal(t, 1, cs.Columns)
	assert.NotNil(t, cs.Items)
	assert.Contains(t, data.Metadata.Layout.Pages[0].Main, "new-1")
}

func TestManager_TemplateGallery(t *testing.T) {
	s, m := newFixture(t, normalize.DefaultResumeData())

	m.Request(Intent{Type: TemplateGallery})
	var verr *ValidationError
	require.ErrorAs(t, m.Submit(json.RawMessage(`{"template": "retired"}`)), &verr)
	assert.True(t, m.Orchestrator().IsOpen())

	require.NoError(t, m.Submit(json.RawMessage(`{"template": "gengar"}`)))
	data, _ := s.Data()
	assert.Equal(t, "gengar", data.Metadata.Template)
	assert.False(t, m.Orchestrator().IsOpen())
}

func TestManager_RequestJSON(t *testing.T) {
	s, m := newFixture(t, withExperience())

	require.NoError(t, m.RequestJSON("resume.sections.experience.update", json.RawMessage(`{"id": "exp-1", "company": "Analytical Engines"}`)))
	require.NoError(t, m.Submit(json.RawMessage(`{"location": "London"}`)))

	data, _ := s.Data()
	assert.Equal(t, "London", data.Sections.Experience.Items[0].Location)

	assert.Error(t, m.RequestJSON(TemplateGallery, json.RawMessage(`{`)))
}

func TestManager_SubmitWithoutDialog(t *testing.T) {
	_, m := newFixture(t, normalize.DefaultResumeData())

	assert.ErrorIs(t, m.Submit(json.RawMessage(`{}`)), ErrNoDialog)

	m.Request(Intent{Type: "resume.unknown"})
	assert.Nil(t, m.Current())
	assert.ErrorIs(t, m.Submit(json.RawMessage(`{}`)), ErrNoDialog)
	m.Cancel()
	assert.False(t, m.Orchestrator().IsOpen())
}

// requestingCommitter opens another dialog while a submit is committing.
type requestingCommitter struct {
	*store.Store
	during func()
}

func (c *requestingCommitter) TryUpdateData(fn func(draft *types.ResumeData) error) (store.CommitResult, error) {
	if c.during != nil {
		c.during()
	}
	return c.Store.TryUpdateData(fn)
}

func TestManager_SubmitDoesNotCloseNewerDialog(t *testing.T) {
	s := store.New()
	s.Initialize(types.NewEditableResume(normalize.DefaultResumeData()))
	c := &requestingCommitter{Store: s}
	m := NewManager(c)
	next := Intent{Type: SectionIntent(sections.KindAwards, OpCreate)}
	c.during = func() { m.Request(next) }

	m.Request(Intent{Type: SectionIntent(sections.KindSkills, OpCreate)})
	require.NoError(t, m.Submit(json.RawMessage(`{"name": "Go"}`)))

	data, _ := s.Data()
	require.Len(t, data.Sections.Skills.Items, 1)
	active, ok := m.Orchestrator().Active()
	require.True(t, ok, "the dialog opened during the commit stays open")
	assert.Equal(t, next, active)
}

func TestManager_StaleViewCancelKeepsNewerDialog(t *testing.T) {
	_, m := newFixture(t, normalize.DefaultResumeData())
	m.Request(Intent{Type: TemplateGallery})
	stale := m.Current()
	require.NotNil(t, stale)

	m.Request(Intent{Type: SectionIntent(sections.KindSkills, OpCreate)})
	stale.Cancel()

	assert.True(t, m.Orchestrator().IsOpen())
}
