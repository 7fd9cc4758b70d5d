package nl2sql

import "testing"

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "fenced with tag", raw: "```sql\nSELECT COUNT(*) FROM STUDENT;\n```", want: "SELECT COUNT(*) FROM STUDENT;"},
		{name: "already clean", raw: "SELECT * FROM STUDENT WHERE MARKS > 80;", want: "SELECT * FROM STUDENT WHERE MARKS > 80;"},
		{name: "fenced without tag", raw: "```\nSELECT 1;\n```", want: "SELECT 1;"},
		{name: "upper case tag", raw: "  ```SQL\nSELECT 1;```  ", want: "SELECT 1;"},
		{name: "single line fence", raw: "```SELECT NAME FROM STUDENT```", want: "SELECT NAME FROM STUDENT"},
		{name: "surrounding whitespace", raw: "\n\t SELECT 1; \n", want: "SELECT 1;"},
		{name: "bare tag line", raw: "sql\nSELECT 1;", want: "SELECT 1;"},
		{name: "missing closing fence", raw: "```sql\nSELECT 1;", want: "SELECT 1;"},
		{name: "empty", raw: "", want: ""},
		{name: "stray preamble kept", raw: "Here you go: SELECT 1;", want: "Here you go: SELECT 1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSQL(tt.raw); got != tt.want {
				t.Fatalf("ExtractSQL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractSQLIsIdempotent(t *testing.T) {
	once := ExtractSQL("```sql\nSELECT * FROM STUDENT where COURSE=\"Data Science\";\n```")
	if twice := ExtractSQL(once); twice != once {
		t.Fatalf("ExtractSQL(ExtractSQL(x)) = %q, want %q", twice, once)
	}
}
