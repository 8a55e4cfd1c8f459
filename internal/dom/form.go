package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field is a named form control value
type Field struct {
	Name  string
	Value string
}

// FormFields collects the named controls of a form in document order, the
// way FormData does. Buttons and unnamed or disabled controls are skipped.
func FormFields(form *goquery.Selection) []Field {
	var fields []Field
	form.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		switch goquery.NodeName(s) {
		case "textarea":
			fields = append(fields, Field{Name: name, Value: s.Text()})
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			v, ok := opt.Attr("value")
			if !ok {
				v = opt.Text()
			}
			fields = append(fields, Field{Name: name, Value: v})
		default:
			typ := strings.ToLower(s.AttrOr("type", "text"))
			switch typ {
			case "submit", "button", "reset", "image", "file":
				return
			case "checkbox", "radio":
				if _, checked := s.Attr("checked"); !checked {
					return
				}
				fields = append(fields, Field{Name: name, Value: s.AttrOr("value", "on")})
			default:
				fields = append(fields, Field{Name: name, Value: s.AttrOr("value", "")})
			}
		}
	})
	return fields
}

// SetValue sets the current value of an input or textarea
func SetValue(control *goquery.Selection, value string) {
	control.Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "textarea" {
			s.SetText(value)
			return
		}
		s.SetAttr("value", value)
	})
}

// ResetForm clears the user-editable controls of a form. Hidden inputs keep
// their values since the page, not the visitor, filled them in.
func ResetForm(form *goquery.Selection) {
	form.Find("input, textarea").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "textarea" {
			s.SetText("")
			return
		}
		switch strings.ToLower(s.AttrOr("type", "text")) {
		case "hidden", "submit", "button", "reset", "image":
			return
		case "checkbox", "radio":
			s.RemoveAttr("checked")
		default:
			s.RemoveAttr("value")
		}
	})
}
