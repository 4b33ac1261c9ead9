package models

import "github.com/jinzhu/gorm"

// User is an account. Email and nickname are unique across all users.
type User struct {
	gorm.Model
	Email        string `gorm:"unique;not null"`
	Nickname     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
}

// Question is the root of a discussion. Its CreatedAt orders authored-content listings.
type Question struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Title   string
	Content string
}

// Answer belongs to exactly one question.
type Answer struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	QuestionID uint `gorm:"index;not null"`
	Content    string
}

// ParentKind tags what a comment hangs off.
type ParentKind string

const (
	ParentQuestion ParentKind = "question"
	ParentAnswer   ParentKind = "answer"
)

// CommentParent is the tagged reference from a comment to its parent.
// Exactly one entity is referenced: ID is a question ID or an answer ID depending on Kind.
type CommentParent struct {
	Kind ParentKind
	ID   uint
}

// OnQuestion builds the parent of a comment left directly on a question.
func OnQuestion(questionID uint) CommentParent {
	return CommentParent{Kind: ParentQuestion, ID: questionID}
}

// OnAnswer builds the parent of a comment left on an answer.
func OnAnswer(answerID uint) CommentParent {
	return CommentParent{Kind: ParentAnswer, ID: answerID}
}

// Comment is attached to a question or an answer, as given by ParentKind and ParentID.
type Comment struct {
	gorm.Model
	UserID     uint       `gorm:"index"`
	ParentKind ParentKind `gorm:"not null;index:idx_comment_parent"`
	ParentID   uint       `gorm:"not null;index:idx_comment_parent"`
	Content    string
}

// Parent returns the comment's tagged parent reference.
func (c *Comment) Parent() CommentParent {
	return CommentParent{Kind: c.ParentKind, ID: c.ParentID}
}

// SetParent attaches the comment to p.
func (c *Comment) SetParent(p CommentParent) {
	c.ParentKind = p.Kind
	c.ParentID = p.ID
}
