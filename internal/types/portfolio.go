// Package types provides type definitions for structured data used throughout the portfolio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Markup is first-party inline HTML taken verbatim from the content document.
// Values of this type are interpolated into the page without escaping; plain
// strings must pass through an escaping boundary to become Markup.
type Markup string

// Portfolio is the complete content document consumed by the renderer.
// It is read once at boot and never mutated.
type Portfolio struct {
	Site       *Site       `json:"site" yaml:"site" validate:"required"`
	Hero       *Hero       `json:"hero" yaml:"hero" validate:"required"`
	About      *About      `json:"about" yaml:"about" validate:"required"`
	Skills     *Skills     `json:"skills" yaml:"skills" validate:"required"`
	Employment *Employment `json:"employment" yaml:"employment" validate:"required"`
	Education  []Education `json:"education" yaml:"education" validate:"required"`
	Projects   []Project   `json:"projects" yaml:"projects" validate:"required,dive"`
	Contact    *Contact    `json:"contact" yaml:"contact" validate:"required"`
}

// Site holds page-wide metadata
type Site struct {
	Title      string `json:"title" yaml:"title" validate:"required"`
	BasePath   string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Favicon    string `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	LogoImage  string `json:"logoImage,omitempty" yaml:"logoImage,omitempty"`
	LogoWidth  int    `json:"logoWidth,omitempty" yaml:"logoWidth,omitempty" validate:"gte=0"`
	LogoHeight int    `json:"logoHeight,omitempty" yaml:"logoHeight,omitempty" validate:"gte=0"`
	FooterText string `json:"footerText,omitempty" yaml:"footerText,omitempty"`
}

// Hero is the landing section at the top of the page
type Hero struct {
	Name        string      `json:"name" yaml:"name"`
	Role        string      `json:"role" yaml:"role"`
	Photo       string      `json:"photo" yaml:"photo"`
	PhotoAlt    string      `json:"photoAlt" yaml:"photoAlt"`
	Subtitle    []Markup    `json:"subtitle" yaml:"subtitle"`
	CTAButtons  []CTAButton `json:"ctaButtons" yaml:"ctaButtons" validate:"dive"`
	SkillBadges []Markup    `json:"skillBadges" yaml:"skillBadges"`
}

// CTAButton is a call-to-action link in the hero
type CTAButton struct {
	Label  Markup `json:"label" yaml:"label"`
	Href   string `json:"href" yaml:"href" validate:"required"`
	Icon   string `json:"icon" yaml:"icon"`
	Style  string `json:"style,omitempty" yaml:"style,omitempty" validate:"omitempty,oneof=primary secondary"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// StyleSecondary selects the outlined CTA variant.
const StyleSecondary = "secondary"

// About holds the biography section
type About struct {
	Photo      string   `json:"photo" yaml:"photo"`
	PhotoAlt   string   `json:"photoAlt" yaml:"photoAlt"`
	Paragraphs []Markup `json:"paragraphs" yaml:"paragraphs"`
}

// Skills holds every block rendered in the skills section
type Skills struct {
	SectionSubtitle Markup         `json:"sectionSubtitle" yaml:"sectionSubtitle"`
	Cards           []SkillCard    `json:"cards" yaml:"cards"`
	TechCategories  []TechCategory `json:"techCategories" yaml:"techCategories"`
	Methodologies   []IconLabel    `json:"methodologies" yaml:"methodologies"`
	SoftSkills      []IconLabel    `json:"softSkills" yaml:"softSkills"`
}

// SkillCard is an icon card with a bullet list
type SkillCard struct {
	FaIcon string   `json:"faIcon" yaml:"faIcon"`
	Title  Markup   `json:"title" yaml:"title"`
	Items  []Markup `json:"items" yaml:"items"`
}

// TechCategory groups technology tags under a heading
type TechCategory struct {
	Title Markup   `json:"title" yaml:"title"`
	Tags  []Markup `json:"tags" yaml:"tags"`
}

// IconLabel is an icon followed by a short caption
type IconLabel struct {
	FaIcon string `json:"faIcon" yaml:"faIcon"`
	Label  Markup `json:"label" yaml:"label"`
}

// Employment holds the employer timeline
type Employment struct {
	SectionSubtitle string    `json:"sectionSubtitle" yaml:"sectionSubtitle"`
	Companies       []Company `json:"companies" yaml:"companies" validate:"dive"`
}

// Company is an employer card; roles are listed newest first by convention
type Company struct {
	Name      Markup `json:"name" yaml:"name" validate:"required"`
	Logo      string `json:"logo" yaml:"logo"`
	LogoAlt   string `json:"logoAlt" yaml:"logoAlt"`
	Duration  Markup `json:"duration" yaml:"duration"`
	IsCurrent bool   `json:"isCurrent" yaml:"isCurrent"`
	Roles     []Role `json:"roles" yaml:"roles"`
}

// Role is a position held at a company
type Role struct {
	Title       Markup `json:"title" yaml:"title"`
	Description Markup `json:"description" yaml:"description"`
}

// Education is a degree or certification card
type Education struct {
	Image       string `json:"image" yaml:"image"`
	ImageAlt    string `json:"imageAlt" yaml:"imageAlt"`
	Degree      Markup `json:"degree" yaml:"degree"`
	Institution Markup `json:"institution" yaml:"institution"`
	Description Markup `json:"description" yaml:"description"`
}

// Project is a card in the project carousel
type Project struct {
	Image       string   `json:"image" yaml:"image"`
	Title       Markup   `json:"title" yaml:"title" validate:"required"`
	Description Markup   `json:"description" yaml:"description"`
	Tags        []Markup `json:"tags" yaml:"tags"`
	GithubURL   string   `json:"githubUrl,omitempty" yaml:"githubUrl,omitempty"`
}

// Contact holds the contact section and form settings
type Contact struct {
	Intro string        `json:"intro" yaml:"intro"`
	Links []ContactLink `json:"links" yaml:"links" validate:"dive"`
	Form  ContactForm   `json:"form" yaml:"form"`
}

// ContactLink is an outbound contact channel
type ContactLink struct {
	Href   string `json:"href" yaml:"href" validate:"required"`
	Icon   string `json:"icon" yaml:"icon"`
	Label  Markup `json:"label" yaml:"label"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// ContactForm carries the relay access key pre-filled into the form
type ContactForm struct {
	Web3FormsKey string `json:"web3formsKey" yaml:"web3formsKey"`
}

// Validate validates the Portfolio using the validator.
func (p *Portfolio) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
