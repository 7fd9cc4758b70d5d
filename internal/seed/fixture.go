package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/students.yaml
var embeddedFS embed.FS

const defaultFixture = "fixtures/students.yaml"

type Student struct {
	Name    string `yaml:"name"`
	Course  string `yaml:"course"`
	Section string `yaml:"section"`
	Marks   int    `yaml:"marks"`
}

type Fixture struct {
	Students []Student `yaml:"students"`
}

// DefaultFixture returns the sample class bundled with the binary.
func DefaultFixture() (Fixture, error) {
	body, err := embeddedFS.ReadFile(defaultFixture)
	if err != nil {
		return Fixture{}, fmt.Errorf("read default fixture: %w", err)
	}
	return DecodeFixture(bytes.NewReader(body))
}

func DecodeFixture(r io.Reader) (Fixture, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var fixture Fixture
	if err := decoder.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, errors.New("fixture is empty")
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	for i, student := range fixture.Students {
		if strings.TrimSpace(student.Name) == "" {
			return Fixture{}, fmt.Errorf("student %d: name is required", i)
		}
		if strings.TrimSpace(student.Course) == "" {
			return Fixture{}, fmt.Errorf("student %d (%s): course is required", i, student.Name)
		}
	}
	return fixture, nil
}

// values orders a student's fields to match the STUDENT column order.
func (s Student) values() []any {
	return []any{s.Name, s.Course, s.Section, s.Marks}
}
