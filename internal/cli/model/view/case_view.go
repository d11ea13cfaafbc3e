package view

import (
	"CaseKeeper/internal/model"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimeLayout — формат дат в выводе CLI.
const TimeLayout = "2006-01-02 15:04"

// FormatTime выводит время в локальной зоне; нулевое время — прочерк.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// FormatAge — возраст или прочерк.
func FormatAge(age *int) string {
	if age == nil {
		return "-"
	}
	return strconv.Itoa(*age)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ImageRef — короткое представление ссылки: data URL не печатаем целиком.
func ImageRef(img model.Image) string {
	if strings.HasPrefix(img.Data, "data:") {
		head, _, _ := strings.Cut(img.Data, ",")
		return fmt.Sprintf("%s (%s, inline)", orDash(img.Name), strings.TrimPrefix(head, "data:"))
	}
	return img.Data
}

// CaseLine — одна строка списка.
func CaseLine(c model.Case) string {
	return fmt.Sprintf("- %s  %s  symptom=%s  last=%s  diagnoses=%d",
		c.ID, c.Name, orDash(c.Symptom), FormatTime(c.LastDiagnosisTime), len(c.Diagnoses))
}

// WriteList печатает список записей с итогом.
func WriteList(w io.Writer, cs []model.Case) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "Нет записей")
		return
	}
	for _, c := range cs {
		fmt.Fprintln(w, CaseLine(c))
	}
	fmt.Fprintf(w, "Всего: %d\n", len(cs))
}

// WriteCase печатает запись целиком вместе с историей диагнозов.
func WriteCase(w io.Writer, c *model.Case) {
	fmt.Fprintf(w, "id:        %s\n", c.ID)
	fmt.Fprintf(w, "name:      %s\n", c.Name)
	fmt.Fprintf(w, "symptom:   %s\n", orDash(c.Symptom))
	fmt.Fprintf(w, "contact:   %s\n", orDash(c.Contact))
	fmt.Fprintf(w, "gender:    %s\n", orDash(string(c.Gender)))
	fmt.Fprintf(w, "age:       %s\n", FormatAge(c.Age))
	fmt.Fprintf(w, "created:   %s\n", FormatTime(c.CreatedAt))
	fmt.Fprintf(w, "last:      %s\n", FormatTime(c.LastDiagnosisTime))
	fmt.Fprintf(w, "diagnoses: %d\n", len(c.Diagnoses))
	for i, d := range c.Diagnoses {
		fmt.Fprintf(w, "\n#%d %s  %s", i+1, d.ID, FormatTime(d.CreatedAt))
		if d.UpdatedAt != nil {
			fmt.Fprintf(w, "  (edited %s)", FormatTime(*d.UpdatedAt))
		}
		fmt.Fprintln(w)
		for _, line := range strings.Split(d.Content, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		for _, img := range d.Images {
			fmt.Fprintf(w, "  [image] %s\n", ImageRef(img))
		}
	}
}
