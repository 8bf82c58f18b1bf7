package main

import (
	"encoding/json"
	"log"
	"strings"

	"ai-editor-be/internal/model"
	"ai-editor-be/pkg/richtext"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// editorState wraps plain paragraphs in the serialized node tree the browser
// editor loads, so seeded documents open without a migration step.
func editorState(paragraphs ...string) datatypes.JSON {
	doc := richtext.Doc{Type: richtext.NodeDoc}
	for _, p := range paragraphs {
		doc.Content = append(doc.Content, richtext.Node{
			Type:    richtext.NodeParagraph,
			Content: []richtext.Node{{Type: richtext.NodeText, Text: p}},
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		log.Fatalf("Error: Failed to build editor state: %v", err)
	}
	return datatypes.JSON(b)
}

// SeedWelcomeDocuments populates the starter folder with sample content.
func SeedWelcomeDocuments(db *gorm.DB, userID, folderID uuid.UUID) {
	welcomeParagraphs := []string{
		"Welcome to your new workspace. Everything you write here is saved as you type and indexed for semantic search.",
		"Select any passage and press the assist button to have the writing assistant summarize, improve, or continue it. The replacement streams into place and you can keep typing anywhere else while it runs.",
		"Use the chat panel to ask questions about the document you are working on. With text selected, the conversation stays scoped to that selection.",
	}
	draftParagraphs := []string{
		"The quarterly report needs a stronger opening. The current draft buries the revenue numbers in the third paragraph and leads with process details nobody asked about.",
		"Try selecting this paragraph and running the improve action to see how the assistant tightens prose without changing its meaning.",
	}

	docs := []model.Document{
		{
			UserId:          userID,
			FolderId:        &folderID,
			Title:           "Welcome to the Editor",
			Content:         editorState(welcomeParagraphs...),
			ContentMarkdown: strings.Join(welcomeParagraphs, "\n\n"),
		},
		{
			UserId:          userID,
			FolderId:        &folderID,
			Title:           "Sample Draft",
			Content:         editorState(draftParagraphs...),
			ContentMarkdown: strings.Join(draftParagraphs, "\n\n"),
		},
	}

	for _, d := range docs {
		d.WordCount = len(strings.Fields(d.ContentMarkdown))

		var existing model.Document
		if err := db.Where("user_id = ? AND title = ?", userID, d.Title).First(&existing).Error; err == nil {
			log.Printf("Document '%s' already exists, skipping...", d.Title)
			continue
		}

		if err := db.Create(&d).Error; err != nil {
			log.Printf("Error creating document '%s': %v", d.Title, err)
		} else {
			log.Printf("Created document: %s (%s)", d.Title, d.Id)
		}
	}
}
