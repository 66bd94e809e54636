// Panel Applets
// Copyright (C) 2025 Дмитрий Удалов dmitry@udalov.online
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package reply

import (
	"applets/internal/common/app"
	"applets/internal/common/helper"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/crypto/ssh/terminal"
)

// APIResponse описывает итоговую структуру ответа.
type APIResponse struct {
	Data        interface{} `json:"data"`
	Error       bool        `json:"error"`
	Transaction string      `json:"transaction,omitempty"`
}

// output куда печатаются ответы
var output io.Writer = os.Stdout

// styles стили дерева из цветовой схемы конфигурации
type styles struct {
	enumerator lipgloss.Style
	accent     lipgloss.Style
	item       lipgloss.Style
	success    lipgloss.Style
	error      lipgloss.Style
}

func newStyles(colors app.Colors) styles {
	return styles{
		enumerator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Enumerator)).
			MarginRight(1),
		accent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.Accent)),
		// Адаптивный цвет для пунктов (для светлой/тёмной темы).
		item: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: colors.ItemLight, Dark: colors.ItemDark}),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.Success)),
		error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colors.Error)),
	}
}

// plainStyles стили без цвета для вывода в файл или канал
func plainStyles() styles {
	return styles{
		enumerator: lipgloss.NewStyle().MarginRight(1),
		accent:     lipgloss.NewStyle(),
		item:       lipgloss.NewStyle(),
		success:    lipgloss.NewStyle(),
		error:      lipgloss.NewStyle(),
	}
}

// IsTTY пользователь запустил приложение в интерактивной консоли
func IsTTY() bool {
	return terminal.IsTerminal(int(os.Stdout.Fd()))
}

// normalize приводит структуры и срезы к map[string]interface{} и []interface{} через JSON.
func normalize(value interface{}) interface{} {
	switch value.(type) {
	case nil, string, bool, int, float64, map[string]interface{}, []interface{}:
		return value
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf(app.T_("%T (unknown type)"), value)
	}

	var result interface{}
	if err = json.Unmarshal(b, &result); err != nil {
		return fmt.Sprintf(app.T_("%T (unknown type)"), value)
	}
	return result
}

func formatScalar(value interface{}) string {
	switch vv := value.(type) {
	case nil:
		return app.T_("no")
	case string:
		if vv == "" {
			return app.T_("no")
		}
		return vv
	case bool:
		if vv {
			return app.T_("yes")
		}
		return app.T_("no")
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// buildTreeFromMap рекурсивно строит дерево (tree.Tree) из map[string]interface{}.
func buildTreeFromMap(prefix string, data map[string]interface{}, st styles) *tree.Tree {
	t := tree.New().Root(prefix)

	// "message" всегда первым
	if msgVal, haveMsg := data["message"]; haveMsg {
		addNode(t, "", normalize(msgVal), st)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "message" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		addNode(t, k, normalize(data[k]), st)
	}

	return t
}

// addNode добавляет значение в дерево. Пустой key означает значение без подписи.
func addNode(t *tree.Tree, key string, value interface{}, st styles) {
	label := TranslateKey(key)

	switch vv := value.(type) {
	case map[string]interface{}:
		if key == "" {
			label = "message"
		}
		t.Child(buildTreeFromMap(label, vv, st))

	case []interface{}:
		if len(vv) == 0 {
			t.Child(fmt.Sprintf("%s: []", label))
			return
		}
		listNode := tree.New().Root(label)
		for i, elem := range vv {
			if mm, ok := elem.(map[string]interface{}); ok {
				listNode.Child(buildTreeFromMap(fmt.Sprintf("%d)", i+1), mm, st))
			} else {
				listNode.Child(fmt.Sprintf("%d) %s", i+1, formatScalar(elem)))
			}
		}
		t.Child(listNode)

	default:
		text := formatScalar(vv)
		switch key {
		case "":
			t.Child(text)
		case "name", "id":
			t.Child(fmt.Sprintf("%s: %s", label, st.accent.Render(text)))
		default:
			t.Child(fmt.Sprintf("%s: %s", label, text))
		}
	}
}

// CliResponse рендерит ответ в зависимости от формата (json/text).
func CliResponse(ctx context.Context, resp APIResponse) error {
	config := app.GetAppConfig(ctx).ConfigManager.GetConfig()
	if txStr, ok := ctx.Value(helper.TransactionKey).(string); ok {
		resp.Transaction = txStr
	}

	switch config.Format {
	case app.FormatJSON:
		// Если нет ошибки, убираем "message"
		if !resp.Error {
			if dataMap, ok := resp.Data.(map[string]interface{}); ok {
				delete(dataMap, "message")
			}
		}
		b, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(output, string(b))

	default:
		switch data := resp.Data.(type) {
		case map[string]interface{}:
			// если ошибка и message с маленькой буквы - делаем заглавную.
			if resp.Error {
				if msgStr, ok := data["message"].(string); ok && len(msgStr) > 0 {
					runes := []rune(msgStr)
					if unicode.IsLower(runes[0]) {
						runes[0] = unicode.ToUpper(runes[0])
						data["message"] = string(runes)
					}
				}
			}

			st := plainStyles()
			if IsTTY() {
				st = newStyles(config.Colors)
			}
			rootColor := st.success
			if resp.Error {
				rootColor = st.error
			}

			t := buildTreeFromMap("⚛", data, st)
			t.Enumerator(tree.RoundedEnumerator).
				EnumeratorStyle(st.enumerator).
				RootStyle(rootColor).
				ItemStyle(st.item)

			_, _ = fmt.Fprintln(output, t.String())

		case string:
			_, _ = fmt.Fprintln(output, data)

		default:
			_, _ = fmt.Fprintf(output, "%v\n", data)
		}
	}

	// пустая ошибка, чтобы вернуть exit code 1
	if resp.Error {
		return errors.New("")
	}

	return nil
}
