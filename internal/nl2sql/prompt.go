package nl2sql

import (
	"fmt"
	"strings"

	"github.com/studentsql/studentsql/internal/schema"
)

type Example struct {
	Question string
	SQL      string
}

var Examples = []Example{
	{
		Question: "How many entries of records are present?",
		SQL:      "SELECT COUNT(*) FROM STUDENT;",
	},
	{
		Question: "Tell me all the students studying in Data Science COURSE?",
		SQL:      `SELECT * FROM STUDENT where COURSE="Data Science";`,
	},
}

// BuildPrompt embeds the question verbatim; it is never validated or escaped.
func BuildPrompt(question string) string {
	table := schema.Student
	lines := []string{
		"You are an expert in converting English questions to SQL query!",
		fmt.Sprintf("The SQL database has the name %s and has the following columns - %s.", table.Name, table.Describe()),
		"For example,",
	}
	for i, example := range Examples {
		lines = append(lines, fmt.Sprintf(
			"Example %d - %s, the SQL command will be something like this %s",
			i+1, example.Question, example.SQL,
		))
	}
	lines = append(lines,
		"Also the SQL code should not have ``` in beginning or end and sql word in output.",
		fmt.Sprintf("Now convert the following question in English to a valid SQL query: %s.", question),
		"No preamble, only valid SQL please",
	)
	return strings.Join(lines, "\n")
}
