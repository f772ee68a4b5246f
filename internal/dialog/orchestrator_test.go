package dialog

import (
	"testing"

	"github.com/jonathan/resume-editor/internal/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_StartsClosed(t *testing.T) {
	o := NewOrchestrator()

	assert.False(t, o.IsOpen())
	_, ok := o.Active()
	assert.False(t, ok)
}

func TestOrchestrator_SingleFlight(t *testing.T) {
	o := NewOrchestrator()
	a := Intent{Type: SectionIntent(sections.KindSkills, OpCreate), Data: map[string]any{"name": "a"}}
	b := Intent{Type: TemplateGallery}

	o.Request(a)
	o.Request(b)

	active, ok := o.Active()
	require.True(t, ok)
	assert.Equal(t, b, active)
	assert.Nil(t, active.Data)
}

func TestOrchestrator_Dismiss(t *testing.T) {
	o := NewOrchestrator()
	o.Request(Intent{Type: TemplateGallery})

	o.Dismiss()
	assert.False(t, o.IsOpen())

	o.Dismiss()
	assert.False(t, o.IsOpen())

	o.Request(Intent{Type: TemplateGallery})
	assert.True(t, o.IsOpen())
}

func TestOrchestrator_CloseSignalRoutesToDismiss(t *testing.T) {
	o := NewOrchestrator()
	var seen []*Intent
	o.Subscribe(func(i *Intent) { seen = append(seen, i) })
	o.Request(Intent{Type: TemplateGallery})

	o.OnOpenChange(true)
	assert.True(t, o.IsOpen())
	o.OnOpenChange(false)

	assert.False(t, o.IsOpen())
	require.Len(t, seen, 2)
	assert.Equal(t, TemplateGallery, seen[0].Type)
	assert.Nil(t, seen[1])
}

func TestOrchestrator_Unsubscribe(t *testing.T) {
	o := NewOrchestrator()
	var calls int
	unsubscribe := o.Subscribe(func(*Intent) { calls++ })

	o.Request(Intent{Type: TemplateGallery})
	unsubscribe()
	o.Dismiss()

	assert.Equal(t, 1, calls)
}

func TestIntentTypes(t *testing.T) {
	all := IntentTypes()

	assert.Len(t, all, 31)
	assert.Contains(t, all, IntentType("resume.sections.experience.update"))
	assert.Contains(t, all, IntentType("resume.sections.cover-letter.create"))
	assert.Contains(t, all, TemplateGallery)
}

func TestIntentType_Section(t *testing.T) {
	kind, op, ok := IntentType("resume.sections.cover-letter.update").Section()
	require.True(t, ok)
	assert.Equal(t, sections.KindCoverLetter, kind)
	assert.Equal(t, OpUpdate, op)

	for _, bad := range []IntentType{TemplateGallery, "resume.sections.hobbies.create", "resume.sections.skills.delete", "resume.sections.skills"} {
		_, _, ok := bad.Section()
		assert.False(t, ok, bad)
	}
}

func TestOrchestrator_DismissIfIgnoresStaleOpenings(t *testing.T) {
	o := NewOrchestrator()
	o.Request(Intent{Type: TemplateGallery})
	_, first, ok := o.opened()
	require.True(t, ok)

	o.Request(Intent{Type: SectionIntent(sections.KindAwards, OpCreate)})
	assert.False(t, o.DismissIf(first))
	assert.True(t, o.IsOpen())

	_, second, _ := o.opened()
	assert.True(t, o.DismissIf(second))
	assert.False(t, o.IsOpen())
	assert.False(t, o.DismissIf(second))
}

func TestOrchestrator_ReRequestSameIntentIsNewOpening(t *testing.T) {
	o := NewOrchestrator()
	intent := Intent{Type: TemplateGallery}
	o.Request(intent)
	_, first, _ := o.opened()

	o.Request(intent)

	assert.False(t, o.DismissIf(first))
	assert.True(t, o.IsOpen())
}
