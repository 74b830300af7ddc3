package ops

import "strings"

// samples is the demo batch offered by the CLI and the web page.
var samples = []string{
	"昨天更新后应用一直闪退，根本用不了！",
	"界面设计太难看了，按钮也找不到",
	"会员价格太贵了，能不能便宜点",
	"很多歌曲都变灰了，版权太少了",
	"希望能添加夜间模式，晚上用着太亮了",
	"不错的产品，就是广告有点多",
	"太棒了！非常喜欢这个应用！",
	"充值后钱扣了但VIP没到账！",
	"应用卡顿严重，体验很差",
	"希望能优化一下界面设计",
}

// Samples returns the demo comments.
func Samples() []string {
	out := make([]string, len(samples))
	copy(out, samples)
	return out
}

// SampleText returns the demo comments as pasted text.
func SampleText() string {
	return strings.Join(samples, "\n")
}
