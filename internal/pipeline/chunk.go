package pipeline

// splitChunks режет текст на куски не длиннее maxRunes рун.
//
// Порядок кусков соответствует порядку текста; summary кусков
// конкатенируются в том же порядке. Резка по рунам, не по байтам:
// мультибайтовый символ не может быть разрезан пополам.
func splitChunks(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/maxRunes+1)
	for start := 0; start < len(runes); start += maxRunes {
		end := min(start+maxRunes, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
