package services

import "gorm.io/gorm"

type seedCategory struct {
	name        string
	description string
	children    []seedCategory
}

var defaultCategories = []seedCategory{
	{
		name:        "创业讨论",
		description: "分享创业经验、讨论创业想法、寻求创业建议",
		children: []seedCategory{
			{name: "创业想法", description: "分享和讨论各种创业想法"},
			{name: "商业模式", description: "探讨不同的商业模式和盈利方式"},
			{name: "融资经验", description: "分享融资经验和投资相关话题"},
		},
	},
	{
		name:        "成长分享",
		description: "个人成长、技能提升、学习心得分享",
		children: []seedCategory{
			{name: "学习心得", description: "分享学习经验和心得体会"},
			{name: "技能提升", description: "讨论各种技能的学习和提升方法"},
			{name: "职业发展", description: "职业规划和发展经验分享"},
		},
	},
	{
		name:        "问题求助",
		description: "遇到问题时寻求帮助和建议",
		children: []seedCategory{
			{name: "技术问题", description: "技术相关问题求助"},
			{name: "管理问题", description: "团队管理和运营问题"},
			{name: "法律咨询", description: "法律相关问题咨询"},
		},
	},
	{
		name:        "资源分享",
		description: "分享有用的资源、工具、书籍等",
		children: []seedCategory{
			{name: "工具推荐", description: "推荐有用的工具和软件"},
			{name: "书籍推荐", description: "推荐优秀的书籍和学习资料"},
			{name: "网站资源", description: "分享有价值的网站和在线资源"},
		},
	},
	{
		name:        "社区公告",
		description: "社区官方公告和重要通知",
	},
}

// SeedDefaultCategories creates the stock category tree on a fresh install.
// Existing categories (matched by name at the same level) are left alone,
// so re-running the seed is safe.
func SeedDefaultCategories(db *gorm.DB) error {
	svc := NewCategoryService(db)
	for i, root := range defaultCategories {
		rootID, err := ensureCategory(db, svc, root.name, root.description, nil, i+1)
		if err != nil {
			return err
		}
		for j, child := range root.children {
			if _, err := ensureCategory(db, svc, child.name, child.description, &rootID, j+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureCategory(db *gorm.DB, svc *CategoryService, name, description string, parentID *uint, order int) (uint, error) {
	var existing struct{ ID uint }
	q := db.Table("categories").Select("id").Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.Take(&existing).Error; err == nil {
		return existing.ID, nil
	} else if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	category, err := svc.Create(CreateCategoryInput{
		Name:        name,
		Description: description,
		ParentID:    parentID,
		SortOrder:   order,
	})
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}
