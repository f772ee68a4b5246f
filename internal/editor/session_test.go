package editor

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-editor/internal/dialog"
	"github.com/jonathan/resume-editor/internal/normalize"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/jonathan/resume-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_EmptyValueLoadsDefault(t *testing.T) {
	s := NewSession(Config{ID: "s1"})

	assert.True(t, s.SetValue(nil))

	r, ok := s.Store().Resume()
	require.True(t, ok)
	assert.Equal(t, types.LocalResumeID, r.ID)
	assert.Equal(t, types.UntitledResumeName, r.Name)
	assert.Equal(t, normalize.DefaultResumeData(), r.Data)
	assert.Equal(t, "s1", s.ID())
}

func TestSession_FirstEditReachesChangeSink(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(nil)
	var got []string
	s.SetOnChange(func(snap store.Snapshot) { got = append(got, snap.Data().Basics.Name) })

	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "Ada Lovelace" })

	assert.Equal(t, []string{"Ada Lovelace"}, got)
	assert.Equal(t, 2, s.Store().PastLen())
}

func TestSession_SameValueKeepsHistory(t *testing.T) {
	s := NewSession(Config{})
	value := map[string]any{"basics": map[string]any{"name": "Ada"}}
	require.True(t, s.SetValue(value))
	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Headline = "Mathematician" })
	edited, _ := s.Store().Data()

	assert.False(t, s.SetValue(edited), "echo of the current document is ignored")
	assert.True(t, s.Store().CanUndo())

	assert.True(t, s.SetValue(value))
	assert.False(t, s.Store().CanUndo())
}

func TestSession_SetValueJSONIgnoresInvalid(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(map[string]any{"basics": map[string]any{"name": "Ada"}})

	changed, err := s.SetValueJSON([]byte(`{"basics":`))

	assert.Error(t, err)
	assert.False(t, changed)
	r, _ := s.Store().Resume()
	assert.Equal(t, "Ada", r.Name)
}

func TestSession_LoadAppliesLockWithoutReset(t *testing.T) {
	s := NewSession(Config{})
	resume := types.NewEditableResume(normalize.DefaultResumeData())
	resume.ID = "r1"
	require.True(t, s.Load(resume))
	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "Ada" })

	current, _ := s.Store().Resume()
	current.IsLocked = true
	assert.False(t, s.Load(&current))

	assert.True(t, s.Store().IsLocked())
	assert.True(t, s.Store().CanUndo())
}

func TestSession_LockedWarningVisibleInView(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(nil)
	s.Store().SetLocked(true)

	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "A" })
	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "B" })

	v := s.View()
	require.Len(t, v.Notifications, 1)
	assert.Equal(t, store.LockedMessage, v.Notifications[0].Message)
	assert.Equal(t, types.UntitledResumeName, v.Resume.Name)
}

func TestSession_ViewIncludesDialog(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(nil)

	s.Dialogs().Request(dialog.Intent{Type: dialog.TemplateGallery})
	v := s.View()

	require.NotNil(t, v.Dialog)
	assert.Equal(t, dialog.TemplateGallery, v.Dialog.Type)
	assert.True(t, v.Ready)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"canUndo":false`)
	assert.Contains(t, string(raw), `"dialog":{"type":"resume.template.gallery"}`)
}

func TestSession_SubscribeSignalsChanges(t *testing.T) {
	s := NewSession(Config{})
	var signals int
	unsubscribe := s.Subscribe(func() { signals++ })

	s.SetValue(nil)
	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "Ada" })
	s.Dialogs().Request(dialog.Intent{Type: dialog.TemplateGallery})
	unsubscribe()
	s.Dialogs().Dismiss()

	assert.Equal(t, 3, signals)
}

func TestSession_Close(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(nil)
	var sinkCalls int
	s.SetOnChange(func(store.Snapshot) { sinkCalls++ })
	s.Dialogs().Request(dialog.Intent{Type: dialog.TemplateGallery})

	s.Close()

	assert.False(t, s.Store().Ready())
	assert.False(t, s.Dialogs().Orchestrator().IsOpen())
	assert.Equal(t, 0, s.Store().PastLen())

	s.SetValue(nil)
	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "Ada" })
	assert.Zero(t, sinkCalls, "the sink is dropped on close")
}

func TestSession_LockedWarningSignalsAndDismisses(t *testing.T) {
	s := NewSession(Config{})
	s.SetValue(nil)
	s.Store().SetLocked(true)
	var signals int
	s.Subscribe(func() { signals++ })

	s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "A" })
	require.Equal(t, 1, signals)

	notices := s.View().Notifications
	require.Len(t, notices, 1)
	s.DismissNotice(notices[0].ID)

	assert.Equal(t, 2, signals)
	assert.Empty(t, s.View().Notifications)
}

func TestSession_SetValueKeepsHostAttributes(t *testing.T) {
	s := NewSession(Config{ResumeID: "r1"})
	stored := types.NewEditableResume(normalize.DefaultResumeData())
	stored.ID = "r1"
	stored.Slug = "ada-resume"
	stored.Tags = []string{"math"}
	stored.IsLocked = true
	require.True(t, s.Load(stored))

	assert.False(t, s.SetValue(normalize.DefaultResumeData()))
	assert.True(t, s.Store().IsLocked(), "equal value keeps the lock")

	assert.True(t, s.SetValue(map[string]any{"basics": map[string]any{"name": "Ada"}}))
	r, ok := s.Store().Resume()
	require.True(t, ok)
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "ada-resume", r.Slug)
	assert.Equal(t, []string{"math"}, r.Tags)
	assert.True(t, r.IsLocked)
	assert.Equal(t, "Ada", r.Name)

	assert.Equal(t, store.CommitLocked, s.Store().UpdateData(func(d *types.ResumeData) { d.Basics.Name = "Bob" }))
}
