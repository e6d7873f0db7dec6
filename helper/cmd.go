package helper

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/share"
)

// Completer 根据当前输入给出补全候选
type Completer func(line string) []string

// ReadLine 在终端读取一行输入，支持 Tab 补全
func ReadLine(prefix string, complete Completer) string {
	return prompt.Input(prefix,
		func(d prompt.Document) []prompt.Suggest {
			return Suggestions(d.TextBeforeCursor(), d.GetWordBeforeCursor(), complete)
		},
		prompt.OptionTitle(share.BUILDNAME),
		prompt.OptionPrefixTextColor(prompt.Blue),
		prompt.OptionInputTextColor(prompt.DefaultColor),
	)
}

// Suggestions 把补全候选转换为以当前单词开头的建议
func Suggestions(line, word string, complete Completer) []prompt.Suggest {
	if complete == nil || strings.TrimSpace(line) == "" {
		return nil
	}
	var out []prompt.Suggest
	for _, c := range complete(line) {
		if strings.HasPrefix(c, word) {
			out = append(out, prompt.Suggest{Text: c})
		}
	}
	return out
}

// PromptYesNo 从 in 读取是否确认，空输入使用默认值
func PromptYesNo(in io.Reader, out io.Writer, question string, defaultYes bool) (bool, error) {
	fmt.Fprint(out, question)
	scanner := bufio.NewScanner(in)
	scanner.Split(scanAnyLine)
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return defaultYes, err
			}
			return defaultYes, io.EOF
		}
		ans := strings.TrimSpace(scanner.Text())
		if ans == "" {
			return defaultYes, nil
		}
		switch normalizeYN(ans) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprint(out, lang.T("Please enter y or n: "))
		}
	}
}

// scanAnyLine 与 bufio.ScanLines 相同，但单独的 '\r' 也视为行尾
func scanAnyLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if i > 0 && data[i-1] == '\r' {
			return i + 1, data[:i-1], nil
		}
		return i + 1, data[:i], nil
	}
	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// normalizeYN 处理全角字符和常见的中文回答
func normalizeYN(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	rs := []rune(s)
	for i, r := range rs {
		if r >= 0xFF01 && r <= 0xFF5E {
			rs[i] = r - 0xFEE0
		}
	}
	s = string(rs)
	switch s {
	case "是", "好", "确定":
		return "yes"
	case "否", "不":
		return "no"
	}
	return s
}
