package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskSeedsWorkingStateAndHistory(t *testing.T) {
	triggering := *NewTextMessage(RoleUser, "hello")
	task := NewTask("ctx1", triggering)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "ctx1", task.ContextID)
	assert.Equal(t, TaskStateWorking, task.Status.State)
	require.Len(t, task.History, 1)
	assert.Equal(t, "hello", task.History[0].Text())
	assert.NotNil(t, task.Artifacts)
	assert.NotNil(t, task.Metadata)
}

func TestTaskValidateRejectsBlankFields(t *testing.T) {
	task := NewTask("ctx1", *NewTextMessage(RoleUser, "hi"))
	assert.True(t, task.Validate())

	blank := *task
	blank.ID = ""
	assert.False(t, blank.Validate())
}

func TestTaskValidateRejectsMalformedHistory(t *testing.T) {
	task := NewTask("ctx1", *NewTextMessage(RoleUser, "hi"))
	task.History = append(task.History, Message{Role: RoleUser, Parts: nil})
	assert.False(t, task.Validate())
}

func TestTaskDeepCopyIsIndependent(t *testing.T) {
	task := NewTask("ctx1", *NewTextMessage(RoleUser, "hi"))
	task.Artifacts = append(task.Artifacts, Artifact{ID: "art1", Parts: []Part{NewTextPart("x")}})
	task.Metadata["k"] = "v"

	cp := task.DeepCopy()
	cp.History[0].Parts[0].Text = "mutated"
	cp.Artifacts[0].Parts[0].Text = "mutated"
	cp.Metadata["k"] = "mutated"

	assert.Equal(t, "hi", task.History[0].Parts[0].Text)
	assert.Equal(t, "x", task.Artifacts[0].Parts[0].Text)
	assert.Equal(t, "v", task.Metadata["k"])
}

func TestTaskDeepCopyNilReceiver(t *testing.T) {
	var task *Task
	assert.Nil(t, task.DeepCopy())
}

func TestTaskLastMessage(t *testing.T) {
	task := NewTask("ctx1", *NewTextMessage(RoleUser, "first"))
	assert.Equal(t, "first", task.LastMessage().Text())

	task.History = append(task.History, *NewTextMessage(RoleAgent, "second"))
	assert.Equal(t, "second", task.LastMessage().Text())
}

func TestTaskLastMessageEmptyHistory(t *testing.T) {
	task := &Task{}
	assert.Nil(t, task.LastMessage())
}

func TestIDConstructorsUseExpectedPrefixes(t *testing.T) {
	assert.Contains(t, NewTaskID(), "task_")
	assert.Contains(t, NewContextID(), "ctx_")
	assert.Contains(t, NewArtifactID(), "art_")
	assert.Contains(t, NewPushConfigID(), "pnc_")
}
