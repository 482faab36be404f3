package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceTypeRequest        ResourceType = "request"
	ResourceTypeUseCase        ResourceType = "use-case"
	ResourceTypePromptTemplate ResourceType = "prompt-template"
	ResourceTypeTool           ResourceType = "tool"
	ResourceTypePolicy         ResourceType = "policy"
	ResourceTypePaper          ResourceType = "paper"
	ResourceTypeProject        ResourceType = "project"
	ResourceTypeConference     ResourceType = "conference"
	ResourceTypeDataset        ResourceType = "dataset"
	ResourceTypeBook           ResourceType = "book"
	ResourceTypeOther          ResourceType = "other"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeRequest, ResourceTypeUseCase, ResourceTypePromptTemplate,
		ResourceTypeTool, ResourceTypePolicy, ResourceTypePaper, ResourceTypeProject,
		ResourceTypeConference, ResourceTypeDataset, ResourceTypeBook, ResourceTypeOther:
		return true
	}
	return false
}

type ResourceStatus string

const (
	ResourceStatusOpen   ResourceStatus = "open"
	ResourceStatusSolved ResourceStatus = "solved"
)

type CollaborationStatus string

const (
	CollaborationSeeking      CollaborationStatus = "seeking"
	CollaborationProven       CollaborationStatus = "proven"
	CollaborationHasMaterials CollaborationStatus = "has-materials"
)

func (s CollaborationStatus) Valid() bool {
	switch s {
	case CollaborationSeeking, CollaborationProven, CollaborationHasMaterials:
		return true
	}
	return false
}

type TimeSavedFrequency string

const (
	TimeSavedPerWeek     TimeSavedFrequency = "per_week"
	TimeSavedPerMonth    TimeSavedFrequency = "per_month"
	TimeSavedPerSemester TimeSavedFrequency = "per_semester"
)

func (f TimeSavedFrequency) Valid() bool {
	switch f {
	case TimeSavedPerWeek, TimeSavedPerMonth, TimeSavedPerSemester:
		return true
	}
	return false
}

type Resource struct {
	ID                  uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID                    `gorm:"type:uuid;not null;index" json:"user_id"`
	User                *User                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type                ResourceType                 `gorm:"not null;index;column:type" json:"type"`
	Status              ResourceStatus               `gorm:"not null;default:open;column:status" json:"status"`
	Title               string                       `gorm:"not null;column:title" json:"title"`
	ContentText         string                       `gorm:"not null;column:content_text" json:"content_text"`
	ParentID            *uuid.UUID                   `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	Discipline          string                       `gorm:"index;column:discipline" json:"discipline"`
	Department          string                       `gorm:"column:department" json:"department"`
	AuthorTitle         string                       `gorm:"column:author_title" json:"author_title"`
	ToolsUsed           datatypes.JSONSlice[string]  `gorm:"column:tools_used" json:"tools_used"`
	CollaborationStatus CollaborationStatus          `gorm:"column:collaboration_status" json:"collaboration_status,omitempty"`
	OpenToCollaborate   datatypes.JSONSlice[string]  `gorm:"column:open_to_collaborate" json:"open_to_collaborate"`
	TimeSavedValue      *float64                     `gorm:"column:time_saved_value" json:"time_saved_value,omitempty"`
	TimeSavedFrequency  TimeSavedFrequency           `gorm:"column:time_saved_frequency" json:"time_saved_frequency,omitempty"`
	EvidenceOfSuccess   datatypes.JSONSlice[string]  `gorm:"column:evidence_of_success" json:"evidence_of_success"`
	IsFork              bool                         `gorm:"not null;default:false;column:is_fork" json:"is_fork"`
	ForkedFromID        *uuid.UUID                   `gorm:"type:uuid;column:forked_from_id" json:"forked_from_id,omitempty"`
	VersionNumber       int                          `gorm:"not null;default:1;column:version_number" json:"version_number"`
	QuickSummary        string                       `gorm:"column:quick_summary" json:"quick_summary"`
	WorkflowSteps       datatypes.JSONSlice[string]  `gorm:"column:workflow_steps" json:"workflow_steps"`
	ExamplePrompt       string                       `gorm:"column:example_prompt" json:"example_prompt"`
	EthicsNotes         string                       `gorm:"column:ethics_notes" json:"ethics_notes"`
	SystemTags          datatypes.JSONSlice[string]  `gorm:"column:system_tags" json:"system_tags"`
	UserTags            datatypes.JSONSlice[string]  `gorm:"column:user_tags" json:"user_tags"`
	IsAnonymous         bool                         `gorm:"not null;default:false;column:is_anonymous" json:"is_anonymous"`
	IsVerified          bool                         `gorm:"not null;default:false;column:is_verified" json:"is_verified"`
	IsHidden            bool                         `gorm:"not null;default:false;index;column:is_hidden" json:"is_hidden"`
	CreatedAt           time.Time                    `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time                    `gorm:"not null" json:"updated_at"`
}

func (Resource) TableName() string {
	return "resource"
}
