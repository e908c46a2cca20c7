package models

// Reading 传感器读数（心率 + 运动状态），创建后不可变
type Reading struct {
	HeartRate int  `json:"heart_rate"`
	Motion    bool `json:"motion"`
}
