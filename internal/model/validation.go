package model

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Validate checks the presence of every field a proposal needs.
func (in TalkInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["titre"] = "Le titre est requis."
	}
	if strings.TrimSpace(in.Subject) == "" {
		errs["sujet"] = "Le sujet est requis."
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "La description est requise."
	}
	if in.Duration <= 0 {
		errs["duree"] = "La durée doit être un nombre de minutes positif."
	}
	if in.Level == "" {
		errs["niveau"] = "Le niveau est requis."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a room before creation.
func (in RoomInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["nom_salle"] = "Le nom de la salle est requis."
	}
	if in.Capacity <= 0 {
		errs["capacite"] = "La capacité doit être un entier positif."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a role before creation.
func (in RoleInput) Validate() FieldErrors {
	if strings.TrimSpace(string(in.Name)) == "" {
		return FieldErrors{"nom_role": "Le nom du rôle est requis."}
	}
	return nil
}
