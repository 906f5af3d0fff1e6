package gemini

import (
	"fmt"
	"strings"

	"github.com/minhthuy266/gemini-tarot/internal/ports"
)

func buildSpreadPrompt(in ports.SpreadInput) string {
	freestyle := in.Spread.Freestyle()

	var cardLines []string
	for i, card := range in.Cards {
		reversed := ""
		if card.Reversed {
			reversed = " (Ngược)"
		}
		if freestyle {
			cardLines = append(cardLines, fmt.Sprintf("Lá bài %d: %s%s", i+1, card.Name, reversed))
		} else {
			cardLines = append(cardLines, fmt.Sprintf("Lá bài %d (%s): %s%s", i+1, in.Positions[i].Meaning, card.Name, reversed))
		}
	}

	var positionDescriptions string
	if freestyle {
		positionDescriptions = "Đây là một lượt giải tự do không có vị trí định trước. Hãy diễn giải các lá bài như một dòng chảy năng lượng hoặc một câu chuyện nối tiếp nhau, liên kết chúng lại với nhau."
	} else {
		var lines []string
		for i, pos := range in.Positions {
			lines = append(lines, fmt.Sprintf("Vị trí %d - %s: %s", i+1, pos.Meaning, pos.Description))
		}
		positionDescriptions = strings.Join(lines, "\n")
	}

	questionContext := "Lượt giải này không có một câu hỏi cụ thể, vì vậy hãy tập trung hoàn toàn vào chủ đề đã chọn."
	if in.Question != "" {
		questionContext = fmt.Sprintf("Người dùng đã hỏi một câu hỏi cụ thể: %q. Hãy đảm bảo rằng các diễn giải và tóm tắt trả lời trực tiếp cho câu hỏi này trong khi vẫn xem xét chủ đề đã chọn.", in.Question)
	}

	meaningContext := "trong bối cảnh vị trí cụ thể của lá bài trong lượt giải"
	if freestyle {
		meaningContext = "trong sự liên kết với các lá bài khác để tạo thành một câu chuyện"
	}

	return fmt.Sprintf(`Thực hiện một lượt giải bài tarot bằng tiếng Việt sử dụng kiểu trải bài %q.

Chủ đề trọng tâm của lượt giải bài này là về %q.
%s

Đây là mô tả về các vị trí trong kiểu trải bài này:
%s

Đây là các lá bài đã được rút cho mỗi vị trí (một số có thể bị ngược):
%s

Vui lòng cung cấp những điều sau đây ở định dạng JSON:
1. Một đối tượng cho mỗi lá bài đã được rút. Đối với mỗi lá bài, hãy cung cấp tên lá bài **chính xác bằng tiếng Anh như đã cung cấp**, mô tả hình ảnh, và cả ý nghĩa xuôi và ngược. QUAN TRỌNG: Khi diễn giải ý nghĩa, hãy tập trung vào ý nghĩa phù hợp (xuôi hoặc ngược dựa trên cách nó được rút ra) và giải thích nó %s, chủ đề đã chọn và câu hỏi của người dùng (nếu có).
2. Một bản tóm tắt tổng thể cho toàn bộ lượt giải bài, kết hợp ý nghĩa của các lá bài để tạo thành một câu chuyện mạch lạc và trả lời trực tiếp câu hỏi của người dùng (nếu có).`,
		in.Spread.Name, in.Theme, questionContext, positionDescriptions, strings.Join(cardLines, "\n"), meaningContext)
}

func buildDailyPrompt(name string, reversed bool) string {
	orientation := "xuôi"
	if reversed {
		orientation = "ngược"
	}
	return fmt.Sprintf(`Cung cấp thông tin chi tiết cho lá bài tarot sau đây bằng tiếng Việt: %s.

Hãy cung cấp những điều sau đây ở định dạng JSON:
1. Tên lá bài (name): Tên chính xác bằng tiếng Anh như đã cung cấp.
2. Ý nghĩa xuôi (upright_meaning): Ý nghĩa chung của lá bài khi xuôi (2-3 câu).
3. Ý nghĩa ngược (reversed_meaning): Ý nghĩa chung của lá bài khi ngược (2-3 câu).
4. Mô tả (description): Mô tả ngắn gọn về hình ảnh Rider-Waite.
5. Diễn giải trong ngày (daily_interpretation): Một thông điệp ngắn gọn, sâu sắc (3-4 câu) cho "Lá Bài Của Ngày", dựa trên việc lá bài được rút %s.`,
		name, orientation)
}

func buildDetailsPrompt(name string) string {
	return fmt.Sprintf(`Cung cấp thông tin chi tiết cho lá bài tarot sau đây bằng tiếng Việt: %s.

Hãy cung cấp những điều sau đây ở định dạng JSON:
1. Tên lá bài (name): Tên chính xác bằng tiếng Anh như đã cung cấp.
2. Ý nghĩa xuôi (upright_meaning): Ý nghĩa chung của lá bài khi xuôi (2-4 câu).
3. Ý nghĩa ngược (reversed_meaning): Ý nghĩa chung của lá bài khi ngược (2-4 câu).
4. Mô tả (description): Mô tả ngắn gọn về hình ảnh Rider-Waite (2-3 câu).`,
		name)
}

func retryPrompt(badJSON string) string {
	return fmt.Sprintf(`Your previous response was not valid JSON. Here is what you returned:
%s

Return ONLY the corrected JSON object matching the requested schema (no markdown, no code fences).`, badJSON)
}
