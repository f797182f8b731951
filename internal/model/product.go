package model

import (
	"errors"
	"strings"
)

// ErrIncompleteProduct is returned by Product.Validate when a required field is blank.
var ErrIncompleteProduct = errors.New("incomplete product: nome, nicho and promessa_principal are required")

// Tone is a copy style label. The wizard offers a fixed vocabulary.
type Tone string

// Tones offered by the tone selector.
const (
	TonePersuasive  Tone = "persuasivo"
	ToneUrgent      Tone = "urgente"
	ToneEmotional   Tone = "emocional"
	ToneEducational Tone = "educativo"
	ToneDirect      Tone = "direto"
	ToneProvocative Tone = "provocativo"
)

// Tone chips suggested next to the selector.
const (
	ToneAggressive Tone = "agressivo"
	ToneScientific Tone = "cientifico"
	ToneHuman      Tone = "humano"
	TonePremium    Tone = "premium"
)

// Tones returns the full tone vocabulary: selector values first, then chip values.
func Tones() []Tone {
	return []Tone{
		TonePersuasive, ToneUrgent, ToneEmotional, ToneEducational, ToneDirect, ToneProvocative,
		ToneAggressive, ToneScientific, ToneHuman, TonePremium,
	}
}

// Valid reports whether t belongs to the vocabulary. The empty tone is valid
// because the field is optional in quick mode.
func (t Tone) Valid() bool {
	if t == "" {
		return true
	}
	for _, known := range Tones() {
		if t == known {
			return true
		}
	}
	return false
}

// Product is the product record submitted to create an analysis.
// All fields are free text except Tone.
type Product struct {
	Name           string `json:"nome" yaml:"nome"`
	Niche          string `json:"nicho" yaml:"nicho"`
	TargetAudience string `json:"publico_alvo" yaml:"publico_alvo"`
	MainPromise    string `json:"promessa_principal" yaml:"promessa_principal"`
	Benefits       string `json:"beneficios" yaml:"beneficios"`
	Mechanism      string `json:"ingredientes_mecanismo" yaml:"ingredientes_mecanismo"`
	Tone           Tone   `json:"tom" yaml:"tom"`
}

// Validate checks the fields the backend requires.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Niche) == "" ||
		strings.TrimSpace(p.MainPromise) == "" {
		return ErrIncompleteProduct
	}
	return nil
}

// Set assigns a field by its wire name. It returns false for unknown fields.
func (p *Product) Set(field, value string) bool {
	switch field {
	case "nome":
		p.Name = value
	case "nicho":
		p.Niche = value
	case "publico_alvo":
		p.TargetAudience = value
	case "promessa_principal":
		p.MainPromise = value
	case "beneficios":
		p.Benefits = value
	case "ingredientes_mecanismo":
		p.Mechanism = value
	case "tom":
		p.Tone = Tone(value)
	default:
		return false
	}
	return true
}

// Merge returns p with every non-empty field of update applied.
func (p Product) Merge(update Product) Product {
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Niche != "" {
		p.Niche = update.Niche
	}
	if update.TargetAudience != "" {
		p.TargetAudience = update.TargetAudience
	}
	if update.MainPromise != "" {
		p.MainPromise = update.MainPromise
	}
	if update.Benefits != "" {
		p.Benefits = update.Benefits
	}
	if update.Mechanism != "" {
		p.Mechanism = update.Mechanism
	}
	if update.Tone != "" {
		p.Tone = update.Tone
	}
	return p
}
