package db

import (
	"encoding/csv"
	"os"
	"strings"

	"gorm.io/gorm"
)

// RandomPrompt picks one prompt uniformly from the pool. Selection is with
// replacement: a room may see the same prompt in more than one round.
func RandomPrompt(conn *gorm.DB) (*Prompt, error) {
	var prompt Prompt
	if err := conn.Order("RANDOM()").First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

func PromptText(conn *gorm.DB, id uint) (string, error) {
	var prompt Prompt
	if err := conn.First(&prompt, id).Error; err != nil {
		return "", err
	}
	return prompt.Text, nil
}

// LoadPromptPool reads prompts from a CSV and upserts them into the prompts table.
func LoadPromptPool(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := readPrompts(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, text := range records {
		entry := Prompt{Text: text}
		if err := conn.FirstOrCreate(&entry, Prompt{Text: text}).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func readPrompts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 {
			continue
		}
		text := strings.TrimSpace(row[0])
		if text == "" {
			continue
		}
		records = append(records, text)
	}
	return records, nil
}
