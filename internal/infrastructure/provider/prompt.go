package provider

import (
	"bytes"
	"text/template"
)

// Worded in Cantonese to match the column labels on the source pages.
var promptTmpl = template.Must(template.New("otc").Parse(`
請幫我檢查以下兩個網址嘅最新價格：
1. {{.SlabURL}} (呢個係 HKD 換 USDT 嘅價，即係我哋要「買入」嘅參考)
2. {{.GrpURL}} (呢個係 USDT 換 HKD 嘅價，即係我哋要「賣出」嘅參考)

我只需要 "{{.Instrument}}" 呢一欄嘅價格。
請以 JSON 格式回覆：
{
  "slab_rate": 數字,
  "grp_rate": 數字,
  "summary": "一句廣東話總結市場情況"
}
`))

type PromptParams struct {
	SlabURL    string
	GrpURL     string
	Instrument string
}

func BuildPrompt(p PromptParams) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
