package completion

import "fmt"

// SystemPrompt 固定輸出欄位的系統指令
const SystemPrompt = "You are a professional chef's assistant. Generate a detailed recipe based on user input in JSON format " +
	"with name, tags, cookingTime, difficulty, servings, ingredients, instructions, " +
	"nutritionalInfo (calories, protein, carbs, fat), and tips fields. " +
	"Respond with a single JSON object only. ingredients, instructions, tags and tips must be arrays of strings, " +
	"servings must be a number and every nutritionalInfo field must be a string."

// UserPrompt 將使用者輸入嵌入生成提示
func UserPrompt(userInput string) string {
	return fmt.Sprintf(
		"Generate a detailed recipe based on the following: \"%s\". "+
			"Include specific ingredients, dietary preferences, and cuisine type if mentioned.",
		userInput,
	)
}

// BuildMessages 建立 system + user 兩則消息
func BuildMessages(userInput string) []Message {
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: UserPrompt(userInput)},
	}
}
