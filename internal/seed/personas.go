package seed

import (
	_ "embed"
	"fmt"

	"pixelaura/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed personas.yml
var personasYAML []byte

// Persona is a permanent demo account defined in personas.yml.
type Persona struct {
	Username string `yaml:"username"`
	Handle   string `yaml:"handle"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
	Avatar   string `yaml:"avatar"`
}

// LoadPersonas parses the embedded persona fixture.
func LoadPersonas() ([]Persona, error) {
	var doc struct {
		Personas []Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(personasYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse personas fixture: %w", err)
	}
	return doc.Personas, nil
}

// Personas upserts the permanent demo accounts. Safe to run repeatedly:
// existing accounts are refreshed in place, keyed by handle.
func Personas(db *gorm.DB) error {
	personas, err := LoadPersonas()
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, p := range personas {
		avatar := p.Avatar
		if avatar == "" {
			avatar = models.DefaultAvatarURL
		}
		user := models.User{
			Username:       p.Username,
			Handle:         p.Handle,
			Email:          p.Email,
			Password:       string(hashedPassword),
			Bio:            p.Bio,
			ProfilePicture: avatar,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "handle"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "bio", "profile_picture", "updated_at"}),
		}).Create(&user).Error
		if err != nil {
			return fmt.Errorf("upsert persona %s: %w", p.Handle, err)
		}
	}
	return nil
}
