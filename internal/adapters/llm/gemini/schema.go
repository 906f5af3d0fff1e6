package gemini

// Schema is the subset of the Gemini responseSchema grammar this client
// needs: objects, arrays, and strings.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// spreadSchema constrains a spread interpretation: one object per drawn
// card, in input order, plus an overall summary.
func spreadSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"cards": {
				Type:        "ARRAY",
				Description: "Một mảng các đối tượng diễn giải lá bài, mỗi đối tượng tương ứng với một lá bài được rút theo đúng thứ tự.",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"name": {
							Type:        "STRING",
							Description: "Tên của lá bài tarot.",
						},
						"upright_meaning": {
							Type:        "STRING",
							Description: "Ý nghĩa của lá bài khi nó ở vị trí xuôi, được diễn giải trong bối cảnh vị trí của nó trong lượt giải. Cung cấp một diễn giải súc tích, sâu sắc khoảng 2-3 câu.",
						},
						"reversed_meaning": {
							Type:        "STRING",
							Description: "Ý nghĩa của lá bài khi nó ở vị trí ngược, được diễn giải trong bối cảnh vị trí của nó trong lượt giải. Cung cấp một diễn giải súc tích, sâu sắc khoảng 2-3 câu.",
						},
						"description": {
							Type:        "STRING",
							Description: "Mô tả hình ảnh ngắn gọn về hình ảnh Rider-Waite cổ điển trên lá bài.",
						},
					},
					Required: []string{"name", "upright_meaning", "reversed_meaning", "description"},
				},
			},
			"summary": {
				Type:        "STRING",
				Description: "Một bản tóm tắt tổng thể, mạch lạc của toàn bộ lượt giải bài, kết nối các ý nghĩa của các lá bài với nhau để kể một câu chuyện. Dài khoảng 3-5 câu.",
			},
		},
		Required: []string{"cards", "summary"},
	}
}

// dailyCardSchema is the single-card variant with the daily message.
func dailyCardSchema() *Schema {
	s := cardDetailSchema()
	s.Properties["daily_interpretation"] = &Schema{Type: "STRING"}
	s.Required = append(s.Required, "daily_interpretation")
	return s
}

// cardDetailSchema constrains a flat glossary lookup.
func cardDetailSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"name":             {Type: "STRING"},
			"upright_meaning":  {Type: "STRING"},
			"reversed_meaning": {Type: "STRING"},
			"description":      {Type: "STRING"},
		},
		Required: []string{"name", "upright_meaning", "reversed_meaning", "description"},
	}
}
