// Package profile редактирует профиль пользователя через плоскую форму.
package profile

import (
	"slices"
	"strings"
)

// ConnaissanceAutre значение канала "autre", для которого нужен текст.
const ConnaissanceAutre = "autre"

// Form плоское состояние формы профиля.
type Form struct {
	Email string `json:"email" validate:"omitempty,email"`

	CommercialNom      string `json:"commercial_nom"`
	CommercialPrenom   string `json:"commercial_prenom"`
	CommercialFonction string `json:"commercial_fonction"`
	CommercialTel      string `json:"commercial_tel"`
	CommercialRue      string `json:"commercial_rue"`
	CommercialCP       string `json:"commercial_cp"`
	CommercialVille    string `json:"commercial_ville"`

	ComptableNom      string `json:"comptable_nom"`
	ComptablePrenom   string `json:"comptable_prenom"`
	ComptableFonction string `json:"comptable_fonction"`
	ComptableEmail    string `json:"comptable_email" validate:"omitempty,email"`
	ComptableTel      string `json:"comptable_tel"`
	ComptableRue      string `json:"comptable_rue"`
	ComptableCP       string `json:"comptable_cp"`
	ComptableVille    string `json:"comptable_ville"`

	UserRaisonSociale     string   `json:"user_raison_sociale"`
	UserSiret             string   `json:"user_siret" validate:"omitempty,numeric,len=14"`
	UserConnaissance      []string `json:"user_connaissance"`
	UserConnaissanceAutre string   `json:"user_connaissance_autre"`
	UserOffre             []string `json:"user_offre"`
}

// FormFromUser заполняет форму из профиля API.
func FormFromUser(u map[string]any) Form {
	connaissance := stringsOf(u, "field_user_connaissance")
	autre := stringOf(u, "field_user_connaissance_autre")
	if strings.TrimSpace(autre) != "" && !slices.Contains(connaissance, ConnaissanceAutre) {
		connaissance = append(connaissance, ConnaissanceAutre)
	}

	return Form{
		Email: stringOf(u, "email"),

		CommercialNom:      stringOf(u, "field_commercial_nom"),
		CommercialPrenom:   stringOf(u, "field_commercial_prenom"),
		CommercialFonction: stringOf(u, "field_commercial_fonction"),
		CommercialTel:      stringOf(u, "field_commercial_tel"),
		CommercialRue:      stringOf(u, "field_commercial_rue"),
		CommercialCP:       stringOf(u, "field_commercial_cp"),
		CommercialVille:    stringOf(u, "field_commercial_ville"),

		ComptableNom:      stringOf(u, "field_comptable_nom"),
		ComptablePrenom:   stringOf(u, "field_comptable_prenom"),
		ComptableFonction: stringOf(u, "field_comptable_fonction"),
		ComptableEmail:    stringOf(u, "field_comptable_email"),
		ComptableTel:      stringOf(u, "field_comptable_tel"),
		ComptableRue:      stringOf(u, "field_comptable_rue"),
		ComptableCP:       stringOf(u, "field_comptable_cp"),
		ComptableVille:    stringOf(u, "field_comptable_ville"),

		UserRaisonSociale:     stringOf(u, "field_user_raison_sociale"),
		UserSiret:             stringOf(u, "field_user_siret"),
		UserConnaissance:      connaissance,
		UserConnaissanceAutre: autre,
		UserOffre:             stringsOf(u, "field_user_offre"),
	}
}

// ClearComptable очищает восемь полей бухгалтера.
func (f *Form) ClearComptable() {
	f.ComptableNom = ""
	f.ComptablePrenom = ""
	f.ComptableFonction = ""
	f.ComptableEmail = ""
	f.ComptableTel = ""
	f.ComptableRue = ""
	f.ComptableCP = ""
	f.ComptableVille = ""
}

// Payload собирает тело запроса обновления профиля.
// Без блока бухгалтера поля field_comptable_* отправляются пустыми.
func (f Form) Payload(withComptable bool) map[string]any {
	connaissance := make([]string, 0, len(f.UserConnaissance))
	for _, c := range f.UserConnaissance {
		if c != ConnaissanceAutre {
			connaissance = append(connaissance, c)
		}
	}

	p := map[string]any{
		"field_commercial_nom":      f.CommercialNom,
		"field_commercial_prenom":   f.CommercialPrenom,
		"field_commercial_fonction": f.CommercialFonction,
		"field_commercial_tel":      f.CommercialTel,
		"field_commercial_rue":      f.CommercialRue,
		"field_commercial_cp":       f.CommercialCP,
		"field_commercial_ville":    f.CommercialVille,

		"field_user_raison_sociale": f.UserRaisonSociale,
		"field_user_siret":          f.UserSiret,
		"field_user_offre":          nonNil(f.UserOffre),
		"field_user_connaissance":   connaissance,
	}

	if slices.Contains(f.UserConnaissance, ConnaissanceAutre) {
		p["field_user_connaissance_autre"] = f.UserConnaissanceAutre
	}

	comptable := f
	if !withComptable {
		comptable.ClearComptable()
	}
	p["field_comptable_nom"] = comptable.ComptableNom
	p["field_comptable_prenom"] = comptable.ComptablePrenom
	p["field_comptable_fonction"] = comptable.ComptableFonction
	p["field_comptable_email"] = comptable.ComptableEmail
	p["field_comptable_tel"] = comptable.ComptableTel
	p["field_comptable_rue"] = comptable.ComptableRue
	p["field_comptable_cp"] = comptable.ComptableCP
	p["field_comptable_ville"] = comptable.ComptableVille

	return p
}

func stringOf(u map[string]any, key string) string {
	s, _ := u[key].(string)
	return s
}

func stringsOf(u map[string]any, key string) []string {
	switch v := u[key].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
