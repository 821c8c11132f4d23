package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/okravets/newsdesk/model"
)

// The placeholder catalog is a fixed offline sample spanning every
// category, used only when all live providers fail or are disabled.
// Output is deterministic for a given clock reading.

var placeholderTitles = map[string][]string{
	"technology": {
		"Нові технології штучного інтелекту",
		"Оновлення в сфері кібербезпеки",
		"Розробка нових мобільних додатків",
		"Інновації в галузі робототехніки",
		"Прогрес у розробці квантових комп'ютерів",
	},
	"sports": {
		"Останні результати футбольних матчів",
		"Нові рекорди в легкій атлетиці",
		"Трансфери в професійному спорті",
		"Підготовка до великих змагань",
		"Досягнення українських спортсменів",
	},
	"business": {
		"Аналіз ринкових трендів",
		"Нові інвестиційні можливості",
		"Зміни в економічній політиці",
		"Розвиток стартапів",
		"Корпоративні злиття та поглинання",
	},
	"entertainment": {
		"Прем'єри нових фільмів",
		"Музичні релізи та концерти",
		"Театральні постановки",
		"Нові серіали та шоу",
		"Події в світі розваг",
	},
	"health": {
		"Нові медичні дослідження",
		"Рекомендації щодо здорового способу життя",
		"Розробка нових ліків",
		"Досягнення в медицині",
		"Важливі новини про здоров'я",
	},
	"science": {
		"Наукові відкриття та дослідження",
		"Космічні місії та дослідження",
		"Екологічні ініціативи",
		"Розвиток науки та технологій",
		"Міжнародні наукові проекти",
	},
}

var placeholderDescriptions = map[string]string{
	"technology":    "Останні новини зі світу технологій та інновацій.",
	"sports":        "Актуальні події та результати зі світу спорту.",
	"business":      "Важливі новини про бізнес та економіку.",
	"entertainment": "Останні події зі світу розваг та культури.",
	"health":        "Актуальна інформація про здоров'я та медицину.",
	"science":       "Наукові відкриття та дослідження.",
}

var generalTitles = []string{
	"Світові новини: важливі події",
	"Головні події дня",
	"Міжнародні новини",
	"Важливі події з усього світу",
}

var placeholderSources = []string{"BBC", "CNN", "Local News"}

// Placeholder builds the fallback dataset for a (query, category)
// pair, applying the same category filter and case-insensitive
// substring filter as the live path.
func Placeholder(query, category string, now time.Time) *model.Result {
	var articles []model.Article

	for _, cat := range model.Categories {
		for i, title := range placeholderTitles[cat] {
			articles = append(articles, model.Article{
				Title:       title,
				Description: fmt.Sprintf("%s %d", placeholderDescriptions[cat], i+1),
				URL:         fmt.Sprintf("newsdesk://sample/%s/%d", cat, i+1),
				SourceName:  placeholderSources[i%len(placeholderSources)],
				PublishedAt: now.Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339),
				Category:    cat,
			})
		}
	}

	if category == model.CategoryAll {
		for i, title := range generalTitles {
			if query != "" {
				title = query + " - " + title
			}
			articles = append(articles, model.Article{
				Title:       title,
				Description: "Головні події з усього світу, які варто знати.",
				URL:         fmt.Sprintf("newsdesk://sample/general/%d", i+1),
				SourceName:  placeholderSources[i%len(placeholderSources)],
				PublishedAt: now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
				Category:    model.CategoryAll,
			})
		}
	}

	filtered := articles[:0:0]
	lowered := strings.ToLower(strings.TrimSpace(query))
	for _, a := range articles {
		if category != model.CategoryAll && a.Category != category {
			continue
		}
		if lowered != "" && !matchesQuery(a, lowered) {
			continue
		}
		filtered = append(filtered, a)
	}

	return &model.Result{
		Status:       "ok",
		TotalResults: len(filtered),
		Articles:     filtered,
	}
}
