package insight

import (
	"fmt"
	"strings"
)

// Languages with advice texts. Anything else falls back to English.
const (
	LangEN = "en"
	LangZH = "zh"
)

var messages = map[string]map[Code]string{
	LangEN: {
		RTHigh:     "Average reaction time is high. Add more training with distracting ready signals and keep your fingers on the keys.",
		RTGood:     "Reaction time looks good. Try shorter cue intervals or more randomness.",
		AimLow:     "Aim accuracy is low. Train in steps with larger targets or a longer display time.",
		AimGood:    "Accuracy is good. Try a smaller target radius or more simultaneous targets.",
		SeqLow:     "Sequence level is low. Rehearse in chunks and keep a steady rhythm.",
		SeqGood:    "Sequence memory is good. Try adding distracting sounds or a faster pace.",
		GngLow:     "Many inhibition errors. Show No-Go stimuli longer or lower the Go ratio.",
		GngGood:    "Inhibition control is good. Raise the Go:No-Go ratio or shorten the ISI.",
		StroopHigh: "Stroop interference cost is high. Focus on the ink color first, then raise the incongruent ratio gradually.",
		StroopGood: "Stroop performance is stable. Raise the incongruent ratio or shorten the display time.",
		TapsLow:    "Tapping rate is low. Practise short high-frequency bursts and relax your wrist to avoid fatigue.",
		TapsGood:   "Tapping speed is good. Try all-out bursts over shorter windows.",
		PosnerHigh: "Attention switch cost is high. Start with a higher valid cue ratio and add invalid cues gradually.",
		PosnerGood: "Attention switching is good. Shorten the ISI or raise the invalid cue ratio.",
		SSTLong:    "Stop-signal reaction time (SSRT) is long. Lower the initial SSD and use smaller staircase steps.",
		SSTGood:    "Response inhibition is good. Try a higher stop ratio or a larger SSD step.",
		CRTLow:     "Choice reaction accuracy is low. Reduce distractions or the number of options, then add them back.",
		CRTGood:    "Choice reactions are stable, mean RT ≈ %dms. Add incompatible mappings for a harder challenge.",
		Start:      "Start training! Personal advice appears after any 3 sessions.",
	},
	LangZH: {
		RTHigh:     "反应时均值偏高，建议加入更多“预备信号干扰”的训练，并保持手指放在触控区。",
		RTGood:     "反应时表现不错，尝试减少提示间隔或提高随机性。",
		AimLow:     "点靶命中率较低，建议降低目标尺寸或延长显示时间进行分步训练。",
		AimGood:    "命中率良好，尝试缩小目标半径或增加并发目标数量。",
		SeqLow:     "序列记忆层级不高，可采用“分段复述 + 节拍器”策略提升。",
		SeqGood:    "序列记忆不错，尝试增加干扰音或加快节奏。",
		GngLow:     "抑制错误较多，建议延长No-Go刺激显示时长或降低Go比例。",
		GngGood:    "抑制控制良好，尝试提高Go:No-Go比或缩短ISI。",
		StroopHigh: "Stroop 干扰成本较高，建议先专注于颜色维度，降低不一致比例再逐步提高。",
		StroopGood: "Stroop 表现稳定，可提高不一致比例或缩短呈现时间。",
		TapsLow:    "手指敲击频率偏低，建议进行短时高频点按训练，并注意放松手腕以减少疲劳。",
		TapsGood:   "敲击速度不错，可尝试更短时间窗口下的极限训练。",
		PosnerHigh: "注意转换成本较高，建议先提高有效提示比例，逐步引入无效提示。",
		PosnerGood: "注意转换良好，可缩短ISI或提高无效提示比例。",
		SSTLong:    "抑制时间（SSRT）偏长，建议降低初始SSD并采用小步进自适应，逐步提升难度。",
		SSTGood:    "抑制反应良好，可尝试增加Stop比例或扩大SSD步进。",
		CRTLow:     "多选反应准确率偏低，建议降低并发干扰或减少选项数量后再逐步增加。",
		CRTGood:    "多选反应稳定，平均RT≈%dms，可加入不兼容映射提高挑战。",
		Start:      "开始训练吧！完成任意3轮后将生成个性化建议。",
	},
}

// NormalizeLang maps a language tag such as "zh-CN" to a supported key.
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, LangZH) {
		return LangZH
	}
	return LangEN
}

// Message renders rec in the given language.
func Message(rec Recommendation, lang string) string {
	text, ok := messages[NormalizeLang(lang)][rec.Code]
	if !ok {
		return string(rec.Code)
	}
	if rec.Code == CRTGood {
		return fmt.Sprintf(text, int(rec.Value))
	}
	return text
}
