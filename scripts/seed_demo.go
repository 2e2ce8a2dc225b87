// 演示数据灌入脚本
//
// 在本地开发环境造一套可以直接看同伴对比效果的数据：
// 一个组织、一批员工、一个已发布的活动和足量的回答记录。
//
// 用法: go run scripts/seed_demo.go
package main

import (
	"fmt"
	"log"
	"os"
	"peerlearn_backend/internal/config"
	"peerlearn_backend/internal/model"
	"peerlearn_backend/pkg/database"
	"peerlearn_backend/pkg/logger"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("开始灌入演示数据...")

	org := seedOrganization(db)
	users := seedUsers(db, org.ID)
	video := seedVideo(db)
	campaign := seedCampaign(db, org.ID, users[0].ID, video)
	seedResponses(db, campaign, org.ID, users, video)

	log.Println("完成！")
}

func seedOrganization(db *gorm.DB) *model.Organization {
	org := model.Organization{Name: "Demo Organization", Domain: "demo.local"}
	if err := db.Where("domain = ?", org.Domain).FirstOrCreate(&org).Error; err != nil {
		log.Fatalf("创建组织失败: %v", err)
	}
	return &org
}

func seedUsers(db *gorm.DB, orgID uint) []model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	users := []model.User{
		{Name: "Demo Manager", Email: "manager@demo.local", Role: model.Manager, Department: "People"},
		{Name: "Alice Chen", Email: "alice@demo.local", Role: model.Employee, Department: "Engineering"},
		{Name: "Bob Liu", Email: "bob@demo.local", Role: model.Employee, Department: "Engineering"},
		{Name: "Carol Wang", Email: "carol@demo.local", Role: model.Employee, Department: "Sales"},
		{Name: "David Zhang", Email: "david@demo.local", Role: model.Employee, Department: "Sales"},
	}

	for i := range users {
		users[i].Password = string(hash)
		users[i].OrganizationID = orgID
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			log.Fatalf("创建用户失败: %v", err)
		}
	}
	return users
}

func seedVideo(db *gorm.DB) *model.Video {
	video := model.Video{
		Title:       "Handling Difficult Conversations",
		Description: "A short scenario about giving critical feedback to a teammate.",
		Status:      model.VideoReady,
	}
	if err := db.Where("title = ?", video.Title).FirstOrCreate(&video).Error; err != nil {
		log.Fatalf("创建视频失败: %v", err)
	}

	questions := []model.VideoQuestion{
		{
			VideoID:    video.ID,
			QuestionID: "q_scale_1",
			Statement:  "How confident would you feel handling this situation?",
			Type:       model.QuestionScale,
			Position:   0,
		},
		{
			VideoID:    video.ID,
			QuestionID: "q_intent_1",
			Statement:  "What would you do next?",
			Type:       model.QuestionBehavioralIntent,
			Position:   1,
			Options: model.QuestionOptionList{
				{ID: "opt_direct", Text: "Address it directly in the moment", IntentScore: 0.9},
				{ID: "opt_later", Text: "Wait and bring it up one-on-one later", IntentScore: 0.6},
				{ID: "opt_avoid", Text: "Let it go this time", IntentScore: 0.2},
			},
		},
		{
			VideoID:    video.ID,
			QuestionID: "q_text_1",
			Statement:  "What stood out to you in this scenario?",
			Type:       model.QuestionText,
			Position:   2,
		},
	}
	for i := range questions {
		db.Where("video_id = ? AND question_id = ?", video.ID, questions[i].QuestionID).FirstOrCreate(&questions[i])
	}
	return &video
}

func seedCampaign(db *gorm.DB, orgID, creatorID uint, video *model.Video) *model.Campaign {
	now := time.Now()
	campaign := model.Campaign{
		OrganizationID: orgID,
		Title:          "Q3 Feedback Skills",
		Description:    "Quarterly peer-learning campaign on feedback conversations.",
		IsPublished:    true,
		PublishedAt:    &now,
		CreatorID:      creatorID,
	}
	if err := db.Where("title = ? AND organization_id = ?", campaign.Title, orgID).FirstOrCreate(&campaign).Error; err != nil {
		log.Fatalf("创建活动失败: %v", err)
	}

	item := model.CampaignItem{
		CampaignID: campaign.ID,
		VideoID:    video.ID,
		Position:   0,
	}
	db.Where("campaign_id = ? AND video_id = ?", campaign.ID, video.ID).FirstOrCreate(&item)
	return &campaign
}

func seedResponses(db *gorm.DB, campaign *model.Campaign, orgID uint, users []model.User, video *model.Video) {
	var count int64
	db.Model(&model.ResponseRecord{}).Where("campaign_id = ?", campaign.ID).Count(&count)
	if count > 0 {
		log.Println("回答记录已存在，跳过")
		return
	}

	scaleAnswers := []float64{4, 6, 4, 5}
	intentOptions := []string{"opt_direct", "opt_later", "opt_direct", "opt_avoid"}
	textAnswers := []string{
		"The pause before responding made a big difference.",
		"Tone matters more than the words.",
		"I liked how specific the feedback was.",
		"Hard to watch, very familiar situation.",
	}

	now := time.Now()
	for i, user := range users[1:] { // 第一个是经理，不参与答题
		records := []model.ResponseRecord{
			{
				CampaignID:     campaign.ID,
				OrganizationID: orgID,
				UserID:         user.ID,
				VideoID:        video.ID,
				QuestionID:     "q_scale_1",
				Answer:         model.NumberAnswer(scaleAnswers[i]),
				AnsweredAt:     now.Add(-time.Duration(i) * time.Hour),
			},
			{
				CampaignID:       campaign.ID,
				OrganizationID:   orgID,
				UserID:           user.ID,
				VideoID:          video.ID,
				QuestionID:       "q_intent_1",
				Answer:           model.StringAnswer(intentOptions[i]),
				SelectedOptionID: intentOptions[i],
				AnsweredAt:       now.Add(-time.Duration(i) * time.Hour),
			},
			{
				CampaignID:     campaign.ID,
				OrganizationID: orgID,
				UserID:         user.ID,
				VideoID:        video.ID,
				QuestionID:     "q_text_1",
				Answer:         model.StringAnswer(textAnswers[i]),
				AnsweredAt:     now.Add(-time.Duration(i) * time.Hour),
			},
		}
		for j := range records {
			if err := db.Create(&records[j]).Error; err != nil {
				log.Fatalf("创建回答失败: %v", err)
			}
		}
	}

	fmt.Printf("已为活动 %s 灌入 %d 名员工的回答\n", campaign.ID, len(users)-1)
}
